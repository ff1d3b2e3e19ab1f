package java

// ScopeStack tracks lexical scopes while walking a method body, so that a
// local variable or parameter shadowing an instance field of the same simple
// name is not mistaken for a field access.
type ScopeStack struct {
	scopes []map[string]struct{}
}

// NewScopeStack returns an empty scope stack.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

// Push opens a new lexical scope.
func (s *ScopeStack) Push() {
	s.scopes = append(s.scopes, nil)
}

// Pop closes the innermost scope.
func (s *ScopeStack) Pop() {
	if len(s.scopes) > 0 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Declare binds a name in the innermost scope.
func (s *ScopeStack) Declare(name string) {
	if name == "" || len(s.scopes) == 0 {
		return
	}
	top := s.scopes[len(s.scopes)-1]
	if top == nil {
		top = make(map[string]struct{})
		s.scopes[len(s.scopes)-1] = top
	}
	top[name] = struct{}{}
}

// InScope reports whether a name is bound in any open scope.
func (s *ScopeStack) InScope(name string) bool {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if _, ok := s.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

// Depth returns the number of open scopes.
func (s *ScopeStack) Depth() int {
	return len(s.scopes)
}
