package form

// State is a snapshot of a form: raw values, touched flags and the error each
// field currently has. Errors are always computed; Touched only decides
// whether they are shown.
type State struct {
	Values  map[string]string
	Touched map[string]bool
	Errors  map[string]string
}

// Equal compares two snapshots field by field. Missing map entries compare as
// their zero value.
func (s State) Equal(other State) bool {
	return equalStrings(s.Values, other.Values) &&
		equalBools(s.Touched, other.Touched) &&
		equalStrings(s.Errors, other.Errors)
}

func (s State) clone() State {
	return State{
		Values:  cloneStrings(s.Values),
		Touched: cloneBools(s.Touched),
		Errors:  cloneStrings(s.Errors),
	}
}

func cloneStrings(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneBools(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func equalStrings(a, b map[string]string) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}

func equalBools(a, b map[string]bool) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}
