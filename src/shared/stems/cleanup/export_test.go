package cleanup

func (m *Manager) SetRemove(remove func(path string) error) {
	m.remove = remove
}
