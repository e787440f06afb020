package config

import (
	"reflect"
	"sort"
	"testing"
)

func TestValidKeyNames_Sorted(t *testing.T) {
	names := ValidKeyNames()
	if len(names) == 0 {
		t.Fatal("expected non-empty key list")
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("expected sorted key names, got %v", names)
	}
}

func TestLookupKey_Unknown(t *testing.T) {
	if _, ok := LookupKey("not.a.real.key"); ok {
		t.Fatal("expected unknown key to return false")
	}
}

func TestSetGetUnset_RoundTrip(t *testing.T) {
	cases := map[string]string{
		"user.name":         "Ryan",
		"streak.timezone":   "UTC",
		"streak.milestones": "5,10",
		"dash.columns":      "4",
		"remind.schedule":   "30 21 * * *",
		"log.level":         "debug",
	}
	for key, val := range cases {
		entry, ok := LookupKey(key)
		if !ok {
			t.Fatalf("missing key %q", key)
		}
		cfg := defaultConfig()
		if err := entry.Set(cfg, val); err != nil {
			t.Fatalf("Set(%s=%s): %v", key, val, err)
		}
		if got := entry.Get(cfg); got != val {
			t.Errorf("Get(%s) = %q, want %q", key, got, val)
		}
		entry.Unset(cfg)
		if got := entry.Get(cfg); got != entry.DefaultStr {
			t.Errorf("after Unset, Get(%s) = %q, want default %q", key, got, entry.DefaultStr)
		}
	}
}

func TestSet_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"streak.timezone":   "Nowhere/Land",
		"streak.milestones": "3,seven",
		"dash.columns":      "0",
		"remind.schedule":   "every evening",
		"log.level":         "loud",
	}
	for key, val := range cases {
		entry, _ := LookupKey(key)
		if err := entry.Set(defaultConfig(), val); err == nil {
			t.Errorf("Set(%s=%q) should fail", key, val)
		}
	}
}

func TestParseIntList(t *testing.T) {
	got, err := ParseIntList(" 30, 7,7 ,3,")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{3, 7, 30}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseIntList = %v, want %v", got, want)
	}
	if _, err := ParseIntList("0"); err == nil {
		t.Error("zero should be rejected")
	}
}
