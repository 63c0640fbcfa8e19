package sweep_expired

import "time"

// Result итог одного прохода очистки
type Result struct {
	Candidates  int           `json:"candidates"` // забронированные, но не занятые места
	Cancelled   int           `json:"cancelled"`
	Failed      int           `json:"failed"`
	Ratio       float64       `json:"ratio"`
	Wait        time.Duration `json:"-"`
	WaitMinutes float64       `json:"waitMinutes"`
}
