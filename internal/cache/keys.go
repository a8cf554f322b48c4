package cache

import (
	"fmt"
	"time"
)

const nervousnessPrefix = "nervousness:"

// NervousnessPattern matches every cached nervousness read-out.
const NervousnessPattern = nervousnessPrefix + "*"

func DailyNervousnessKey() string {
	return nervousnessPrefix + "daily"
}

func WeeklyNervousnessKey(from, to time.Time) string {
	return fmt.Sprintf("%sweekly:%s:%s", nervousnessPrefix, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

func SummaryNervousnessKey(from, to time.Time) string {
	return fmt.Sprintf("%ssummary:%s:%s", nervousnessPrefix, from.Format(time.DateOnly), to.Format(time.DateOnly))
}
