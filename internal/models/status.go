package models

// SystemStatus summarises the tracker and the host it runs on.
type SystemStatus struct {
	Tasks             int64   `json:"tasks"`
	UnassignedTasks   int64   `json:"tasks_unassigned"`
	Members           int64   `json:"members"`
	ActiveMembers     int64   `json:"members_active"`
	Storage           string  `json:"storage"`
	HostUptime        uint64  `json:"host_uptime_seconds"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
}
