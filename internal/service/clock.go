package service

import "time"

// 本包所有日历判断统一使用进程本地时区。
// 单用户单时区的设计取舍：与其隐式继承环境行为，不如把策略集中在这里。

// normalizeToDate 将时间截断到当天零点，时区保持不变。
func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isSameDay 按本地日历判断两个时间是否落在同一天。
func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// lookbackStart 返回回溯窗口的起点：now 减去 days*24h 后截断到零点。
func lookbackStart(now time.Time, days int) time.Time {
	return normalizeToDate(now.Add(-time.Duration(days) * 24 * time.Hour))
}

// wholeDaysBetween 返回窗口内完整天数（向下取整），区间倒置时为 0。
func wholeDaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
