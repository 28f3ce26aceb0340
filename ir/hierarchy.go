package ir

// ClassHierarchy answers subtype and declared-method questions. A
// front end builds it once from the full set of loaded classes;
// construction is out of scope here — only the query surface the
// call-graph and pointer-analysis solvers consume.
type ClassHierarchy interface {
	// DirectSubclasses returns the classes that directly extend c.
	DirectSubclasses(c *Class) []*Class
	// DirectSubinterfaces returns the interfaces that directly extend
	// interface c.
	DirectSubinterfaces(c *Class) []*Class
	// DirectImplementors returns the classes that directly implement
	// interface c.
	DirectImplementors(c *Class) []*Class
}

// AllSubtypes returns c together with every class reachable from it
// via DirectSubclasses, DirectSubinterfaces, and DirectImplementors,
// memoized against diamond-shaped hierarchies so no class is visited
// twice.
func AllSubtypes(ch ClassHierarchy, c *Class) []*Class {
	seen := map[*Class]bool{}
	var out []*Class
	var walk func(*Class)
	walk = func(cls *Class) {
		if seen[cls] {
			return
		}
		seen[cls] = true
		out = append(out, cls)
		for _, sub := range ch.DirectSubclasses(cls) {
			walk(sub)
		}
		for _, sub := range ch.DirectSubinterfaces(cls) {
			walk(sub)
		}
		for _, impl := range ch.DirectImplementors(cls) {
			walk(impl)
		}
	}
	walk(c)
	return out
}

// Dispatch resolves the declared, non-abstract method with the given
// subsignature reachable from c, walking up through superclasses.
// Returns (nil, false) if no such method exists up to the root —
// a dispatch miss, which the caller treats as "no call edge", not an
// error.
func Dispatch(c *Class, subsig string) (*Method, bool) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.DeclaredMethod(subsig); ok && !m.IsAbstract {
			return m, true
		}
	}
	return nil, false
}
