package streak

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utc = Calculator{Calendar: LocalCalendar{Location: time.UTC}}

// day returns noon on February n, 2026 (UTC). Day 10 is the usual "today".
func day(n int) time.Time {
	return time.Date(2026, time.February, n, 12, 0, 0, 0, time.UTC)
}

func recordsOn(days ...int) []Record {
	records := make([]Record, len(days))
	for i, d := range days {
		records[i] = Record{EntryDate: day(d)}
	}
	return records
}

func TestCompute_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		days        []int
		wantCurrent int
		wantLongest int
	}{
		{"empty", nil, 0, 0},
		{"single today", []int{10}, 1, 1},
		{"single yesterday is still alive", []int{9}, 1, 1},
		{"single two days ago", []int{8}, 0, 1},
		{"trailing run with older pair", []int{10, 9, 8, 5, 4}, 3, 3},
		{"unbroken six days", []int{10, 9, 8, 7, 6, 5}, 6, 6},
		{"run ended before yesterday", []int{7, 6, 5}, 0, 3},
		{"older run is longest", []int{1, 2, 3, 10}, 1, 3},
		{"yesterday run with older longer run", []int{1, 2, 3, 4, 5, 8, 9}, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utc.Compute(recordsOn(tt.days...), day(10))
			assert.Equal(t, tt.wantCurrent, got.Current, "current")
			assert.Equal(t, tt.wantLongest, got.Longest, "longest")
			assert.GreaterOrEqual(t, got.Longest, got.Current)
		})
	}
}

func TestCompute_EmptyIsZeroValue(t *testing.T) {
	for _, now := range []time.Time{day(1), day(10), time.Unix(0, 0)} {
		assert.Equal(t, Result{}, utc.Compute(nil, now))
		assert.Equal(t, Result{}, utc.Compute([]Record{}, now))
	}
}

func TestCompute_SameDayCountsOnce(t *testing.T) {
	records := []Record{
		{EntryDate: time.Date(2026, 2, 10, 0, 5, 0, 0, time.UTC)},
		{EntryDate: time.Date(2026, 2, 10, 23, 59, 0, 0, time.UTC)},
	}
	got := utc.Compute(records, day(10))
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 1, got.Longest)
}

func TestCompute_OrderAndDuplicatesDoNotMatter(t *testing.T) {
	base := recordsOn(1, 2, 3, 5, 6, 8, 9, 10)
	want := utc.Compute(base, day(10))

	noisy := append(append([]Record{}, base...), recordsOn(3, 9, 9, 1)...)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(noisy), func(a, b int) { noisy[a], noisy[b] = noisy[b], noisy[a] })
		got := utc.Compute(noisy, day(10))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("shuffle %d changed result (-want +got):\n%s", i, diff)
		}
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	records := recordsOn(10, 3, 9, 3)
	snapshot := append([]Record{}, records...)
	utc.Compute(records, day(10))
	assert.Equal(t, snapshot, records)
}

func TestCompute_IgnoresFutureDays(t *testing.T) {
	got := utc.Compute(recordsOn(8, 9, 10, 11, 12, 13, 14), day(10))
	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 3, got.Longest)
	assert.True(t, got.Today)
}

func TestCompute_TimeOfDayIsIgnored(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 1, 0, time.UTC)
	records := []Record{{EntryDate: time.Date(2026, 2, 9, 23, 59, 59, 0, time.UTC)}}
	got := utc.Compute(records, now)
	assert.Equal(t, 1, got.Current)
	assert.False(t, got.Today)
	assert.True(t, got.AtRisk())
}

func TestCompute_LastAndToday(t *testing.T) {
	got := utc.Compute(recordsOn(5, 6, 10), day(10))
	want := Result{
		Current: 1,
		Longest: 2,
		Last:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Today:   true,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.AtRisk())
}

func TestCompute_UsesCalendarTimeZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	calc := Calculator{Calendar: LocalCalendar{Location: tokyo}}

	// 20:00 UTC on Feb 9 is already Feb 10 in Tokyo.
	records := []Record{
		{EntryDate: time.Date(2026, 2, 9, 20, 0, 0, 0, time.UTC)},
		{EntryDate: time.Date(2026, 2, 9, 1, 0, 0, 0, time.UTC)},
	}
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, tokyo)

	got := calc.Compute(records, now)
	assert.Equal(t, 2, got.Current)
	assert.True(t, got.Today)

	// The same instants are a single day in UTC.
	gotUTC := utc.Compute(records, now)
	assert.Equal(t, 1, gotUTC.Longest)
}

func TestCompute_NilCalendarDefaultsToLocal(t *testing.T) {
	now := time.Now()
	got := Calculator{}.Compute([]Record{{EntryDate: now}}, now)
	assert.Equal(t, 1, got.Current)
}

func TestCompute_PackageLevelUsesLocal(t *testing.T) {
	now := time.Now()
	got := Compute(FromTimes([]time.Time{now, now.AddDate(0, 0, -1)}), now)
	assert.Equal(t, 2, got.Current)
}

func TestCompute_CrossesMonthAndYear(t *testing.T) {
	records := []Record{
		{EntryDate: time.Date(2025, 12, 30, 8, 0, 0, 0, time.UTC)},
		{EntryDate: time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC)},
		{EntryDate: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)},
	}
	got := utc.Compute(records, time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 3, got.Longest)
}

func TestLocalCalendar_DaysBetweenAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cal := LocalCalendar{Location: ny}
	before := time.Date(2026, 3, 7, 23, 30, 0, 0, ny)
	after := time.Date(2026, 3, 8, 23, 30, 0, 0, ny)
	assert.Equal(t, 1, cal.DaysBetween(before, after))
	assert.True(t, cal.SameDay(cal.AddDays(before, 1), after))
}

// Chile springs forward at local midnight, so 2026-09-06 starts at 01:00.
func TestLocalCalendar_SkippedMidnight(t *testing.T) {
	scl, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cal := LocalCalendar{Location: scl}
	noon := func(d int) time.Time { return time.Date(2026, 9, d, 12, 0, 0, 0, scl) }

	start := cal.StartOfDay(noon(6))
	assert.Equal(t, 6, start.Day())
	assert.Equal(t, 1, start.Hour())
	assert.True(t, cal.SameDay(cal.AddDays(noon(5), 1), noon(6)))
	assert.True(t, cal.SameDay(cal.AddDays(noon(7), -1), noon(6)))
	assert.Equal(t, 1, cal.DaysBetween(noon(5), noon(6)))

	calc := Calculator{Calendar: cal}
	var records []Record
	for d := 4; d <= 7; d++ {
		records = append(records, Record{EntryDate: noon(d)})
	}
	got := calc.Compute(records, noon(7))
	assert.Equal(t, 4, got.Current)
	assert.Equal(t, 4, got.Longest)
	assert.True(t, got.Today)
}

func TestParseDay_SkippedMidnight(t *testing.T) {
	scl, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got, err := ParseDay("2026-09-06", scl)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-06", got.In(scl).Format(DayLayout))

	records, err := ParseDays([]string{"2026-09-04", "2026-09-05", "2026-09-06", "2026-09-07"}, scl)
	require.NoError(t, err)
	res := Calculator{Calendar: LocalCalendar{Location: scl}}.Compute(records, time.Date(2026, 9, 7, 20, 0, 0, 0, scl))
	assert.Equal(t, 4, res.Current)
	assert.Equal(t, 4, res.Longest)
}

func TestParseDays(t *testing.T) {
	records, err := ParseDays([]string{"2026-02-10", " 2026-02-09 "}, time.UTC)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), records[1].EntryDate)
}

func TestParseDays_RejectsBatchOnBadValue(t *testing.T) {
	records, err := ParseDays([]string{"2026-02-10", "02/09/2026"}, time.UTC)
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Contains(t, err.Error(), "02/09/2026")
	assert.Nil(t, records)
}
