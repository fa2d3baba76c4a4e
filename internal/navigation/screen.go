package navigation

import "fmt"

// Screen is one of the application's top-level views.
type Screen int

const (
	Welcome Screen = iota
	Main
	Enhance
	Compare
)

// Screens lists every Screen in declaration order.
var Screens = []Screen{Welcome, Main, Enhance, Compare}

func (s Screen) String() string {
	switch s {
	case Welcome:
		return "welcome"
	case Main:
		return "main"
	case Enhance:
		return "enhance"
	case Compare:
		return "compare"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Action is a user request that may move between screens.
type Action int

const (
	Enter Action = iota
	RequestEnhancement
	Back
	RequestComparison
)

func (a Action) String() string {
	switch a {
	case Enter:
		return "enter"
	case RequestEnhancement:
		return "request_enhancement"
	case Back:
		return "back"
	case RequestComparison:
		return "request_comparison"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

type edge struct {
	from   Screen
	action Action
}

var transitions = map[edge]Screen{
	{Welcome, Enter}:             Main,
	{Main, RequestEnhancement}:   Enhance,
	{Enhance, Back}:              Main,
	{Enhance, RequestComparison}: Compare,
	{Compare, Back}:              Enhance,
}

// Target resolves the screen reached from s by a, if any.
func Target(s Screen, a Action) (Screen, bool) {
	to, ok := transitions[edge{s, a}]
	return to, ok
}

func allowed(from, to Screen) bool {
	for e, target := range transitions {
		if e.from == from && target == to {
			return true
		}
	}
	return false
}
