package overlay

import (
	"fmt"
	"time"
)

type Outcome int

const (
	NotPresent Outcome = iota
	Dismissed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case NotPresent:
		return "not-present"
	case Dismissed:
		return "dismissed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Probe - что удалось узнать и сделать с одним элементом управления.
type Probe struct {
	Visible bool
	Enabled bool
	Clicked bool
	Forced  bool
	Hidden  bool
}

// Decide - таблица решений:
//
//	не виден или недоступен       -> NotPresent
//	клик или принудительный клик  -> Dismissed
//	клики не прошли, корни скрыты -> Dismissed
//	иначе                         -> Failed
func Decide(p Probe) Outcome {
	switch {
	case !p.Visible || !p.Enabled:
		return NotPresent
	case p.Clicked || p.Forced:
		return Dismissed
	case p.Hidden:
		return Dismissed
	default:
		return Failed
	}
}

type Result struct {
	Overlay string
	Control string
	Outcome Outcome
	Clicks  int
	Err     error
	Elapsed time.Duration
}

// Any сообщает, было ли в результатах что-то кроме NotPresent.
func Any(results []Result) bool {
	for _, r := range results {
		if r.Outcome != NotPresent {
			return true
		}
	}
	return false
}
