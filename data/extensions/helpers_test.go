package extensions

import (
	"testing"
	"time"
)

func TestFilterMultiple(t *testing.T) {
	res := FilterMultiple([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 })
	AssertAreEqual(t, "count", 2, len(res))
	AssertAreEqual(t, "first", 2, res[0])
}

func TestFilterFirstIndex(t *testing.T) {
	names := []string{"Date", "SPY", "QQQ"}
	AssertAreEqual(t, "found", 2, FilterFirstIndex(names, func(s string) bool { return AreEqual(s, " qqq ") }))
	AssertAreEqual(t, "missing", -1, FilterFirstIndex(names, func(s string) bool { return s == "IWM" }))
}

func TestMinMax(t *testing.T) {
	AssertAreEqual(t, "min", 2, Min(2, 5))
	AssertAreEqual(t, "max", 5.5, Max(2.0, 5.5))
}

func TestFmtShort(t *testing.T) {
	AssertAreEqual(t, "date", "2024-03-01", FmtShort(time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC)))
}
