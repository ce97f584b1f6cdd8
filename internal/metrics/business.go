package metrics

// IncrementIssueCreated increments issue creation counter
func (m *Metrics) IncrementIssueCreated() {
	m.safeExecute("IncrementIssueCreated", func() {
		m.IssueCreatedTotal.Inc()
	})
}

// IncrementVersionConflict increments the rejected-update counter
func (m *Metrics) IncrementVersionConflict() {
	m.safeExecute("IncrementVersionConflict", func() {
		m.VersionConflictsTotal.Inc()
	})
}

// RecordStatusTransition records one issue status transition
func (m *Metrics) RecordStatusTransition(from, to string) {
	m.safeExecute("RecordStatusTransition", func() {
		m.StatusTransitionsTotal.WithLabelValues(from, to).Inc()
	})
}

// IncrementBulkStatusUpdate increments the committed bulk update counter
func (m *Metrics) IncrementBulkStatusUpdate() {
	m.safeExecute("IncrementBulkStatusUpdate", func() {
		m.BulkStatusUpdatesTotal.Inc()
	})
}

// RecordImportRows records import row outcomes
func (m *Metrics) RecordImportRows(created, failed int) {
	m.safeExecute("RecordImportRows", func() {
		m.ImportRowsTotal.WithLabelValues("created").Add(float64(created))
		m.ImportRowsTotal.WithLabelValues("failed").Add(float64(failed))
	})
}

// SetIssuesTotal sets total issues gauge
func (m *Metrics) SetIssuesTotal(count int64) {
	m.safeExecute("SetIssuesTotal", func() {
		m.IssuesTotal.Set(float64(count))
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}
