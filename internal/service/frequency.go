package service

import (
	"fmt"
	"strings"
)

// TargetFrequency 是打卡目标的封闭取值集合。
// 统计逻辑对每个取值都有显式分支，新增取值时编译器无法帮忙，但测试会。
type TargetFrequency string

const (
	// FrequencyDaily 表示每天打卡一次。
	FrequencyDaily TargetFrequency = "daily"
	// FrequencyWeekly 表示以周为单位的宽松目标。
	FrequencyWeekly TargetFrequency = "weekly"
	// FrequencySpecificDays 表示只在指定的星期几打卡。
	FrequencySpecificDays TargetFrequency = "specific_days"
	// FrequencyXTimesAWeek 为保留值：允许存储，所有统计均跳过。
	FrequencyXTimesAWeek TargetFrequency = "x_times_a_week"
)

// ParseTargetFrequency 校验并规整频率取值，未知取值返回错误。
func ParseTargetFrequency(raw string) (TargetFrequency, error) {
	switch TargetFrequency(strings.TrimSpace(strings.ToLower(raw))) {
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencySpecificDays:
		return FrequencySpecificDays, nil
	case FrequencyXTimesAWeek:
		return FrequencyXTimesAWeek, nil
	default:
		return "", fmt.Errorf("%w: unsupported frequency %q", ErrHabitInvalidInput, raw)
	}
}
