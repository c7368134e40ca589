package domain

// ReactivationTarget returns the stage a lead should be restored to when
// pulled back out of "No Response". The second return is false when no
// breadcrumb exists; callers must surface that as a typed failure rather
// than silently ignore it, since it points at a data or UI bug.
func ReactivationTarget(breadcrumb *string) (string, bool) {
	if breadcrumb == nil || *breadcrumb == "" {
		return "", false
	}
	return *breadcrumb, true
}
