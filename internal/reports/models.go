package reports

// ClassStats сводная статистика класса учителя
type ClassStats struct {
	TotalStudents int         `json:"totalStudents"`
	TotalSessions int         `json:"totalSessions"`
	AverageScore  int         `json:"averageScore"`
	ActiveToday   int         `json:"activeToday"`
	UnitBreakdown []UnitStats `json:"unitBreakdown"`
}

// UnitStats статистика по одному разделу
type UnitStats struct {
	Unit         string `json:"unit"`
	AverageScore int    `json:"averageScore"`
	Sessions     int    `json:"sessions"`
}
