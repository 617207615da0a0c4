package season

import "garden-assistant/internal/pkg/common"

// InWindow 例行工作的月份區間判斷；start > end 時視為跨年區間（例如 11 到 2 月）
func InWindow(month, start, end int) bool {
	if start <= end {
		return month >= start && month <= end
	}
	return month >= start || month <= end
}

// TasksInWindow 列出該月份應進行的照護工作，保留原本順序
func TasksInWindow(profile *common.CareProfile, month int) []common.CareTask {
	if profile == nil {
		return nil
	}
	out := make([]common.CareTask, 0, len(profile.Tasks))
	for _, t := range profile.Tasks {
		if InWindow(month, t.StartMonth, t.EndMonth) {
			out = append(out, t)
		}
	}
	return out
}
