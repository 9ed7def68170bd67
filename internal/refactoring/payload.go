package refactoring

// Payload carries the kind-specific data of a fact. The set of payload types
// is closed; every Kind maps to exactly one of them.
type Payload interface {
	payload()
}

// Rename records a name change without a container change.
type Rename struct {
	Old string
	New string
}

// Move records a change of container. Pull-up, push-down and
// move-and-rename share this payload and differ only by Kind.
type Move struct {
	OldName      string
	NewName      string
	OldContainer string
	NewContainer string
}

// TypeChange records a declared type change of a return value, attribute,
// parameter or variable, or a change of type declaration kind.
type TypeChange struct {
	Subject string
	Old     string
	New     string
}

// Modifier records one added or removed modifier keyword.
type Modifier struct {
	Subject  string
	Modifier string
}

// AnnotationChange records an added (Old empty), removed (New empty) or
// modified annotation.
type AnnotationChange struct {
	Subject string
	Old     string
	New     string
}

// VisibilityChange records an access modifier change.
type VisibilityChange struct {
	Subject string
	Old     Visibility
	New     Visibility
}

// ExceptionChange records thrown exception types. Add and remove facts carry
// one type on one side; change facts carry both sets.
type ExceptionChange struct {
	Subject string
	Removed []string
	Added   []string
}

// Reorder records the full parameter lists of a reordered signature.
type Reorder struct {
	Subject string
	Old     []string
	New     []string
}

// ParameterChange records an added, removed, renamed or retyped parameter.
type ParameterChange struct {
	Subject string
	Old     string
	New     string
}

// Extraction links an extracted or inlined method, or an extracted type, to
// its origin.
type Extraction struct {
	Source  string
	Target  string
	Members map[string]string // old member -> new member, extract-class family only
}

// StatementChange records a statement-level rewrite.
type StatementChange struct {
	Subject string
	Before  []string
	After   []string
}

func (Rename) payload()           {}
func (Move) payload()             {}
func (TypeChange) payload()       {}
func (Modifier) payload()         {}
func (AnnotationChange) payload() {}
func (VisibilityChange) payload() {}
func (ExceptionChange) payload()  {}
func (Reorder) payload()          {}
func (ParameterChange) payload()  {}
func (Extraction) payload()       {}
func (StatementChange) payload()  {}
