package refactoring

import "github.com/lyoubo/reextractor/internal/model"

// Visibility is the access level of a declaration.
type Visibility int

const (
	Package Visibility = iota
	Public
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "package"
	}
}

// VisibilityOf derives the effective access level. An explicit keyword wins;
// otherwise members of an interface are public and everything else is
// package-private.
func VisibilityOf(e *model.Entity) Visibility {
	for _, m := range e.Modifiers {
		switch m {
		case "public":
			return Public
		case "protected":
			return Protected
		case "private":
			return Private
		}
	}
	if e.Parent != nil && e.Parent.Kind == model.KindInterface {
		return Public
	}
	return Package
}
