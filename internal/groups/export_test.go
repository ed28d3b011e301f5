package groups

// RemoveFromGroup exposes the low-level detach primitive to tests
func (f *Forest) RemoveFromGroup(id int) {
	f.removeFromGroup(id)
}
