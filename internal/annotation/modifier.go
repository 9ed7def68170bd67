package annotation

// Tracked modifier sets per declaration kind.
var (
	MethodModifiers = []string{"final", "abstract", "static", "synchronized"}
	FieldModifiers  = []string{"final", "static", "transient", "volatile"}
	ClassModifiers  = []string{"abstract", "final", "static"}
	LocalModifiers  = []string{"final"}
)

// Modifiers diffs boolean modifier flags. Each tracked keyword is compared
// independently, so one declaration may gain and lose several at once. The
// result follows the order of tracked.
func Modifiers(before, after, tracked []string) (added, removed []string) {
	oldSet := toSet(before)
	newSet := toSet(after)
	for _, m := range tracked {
		switch {
		case newSet[m] && !oldSet[m]:
			added = append(added, m)
		case oldSet[m] && !newSet[m]:
			removed = append(removed, m)
		}
	}
	return added, removed
}

// Flag converts a single boolean flag into a modifier list.
func Flag(keyword string, set bool) []string {
	if set {
		return []string{keyword}
	}
	return nil
}

func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}
