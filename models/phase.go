package models

// Phase is the lifecycle bucket a project is listed under on the portfolio
// pages.
type Phase string

const (
	PhaseRealizovani  Phase = "realizovani"
	PhaseURealizaciji Phase = "u_realizaciji"
	PhasePlanirani    Phase = "planirani"
)

// ParsePhase accepts only the three known phase names.
func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhaseRealizovani, PhaseURealizaciji, PhasePlanirani:
		return Phase(s), true
	}
	return "", false
}

// PhaseOf classifies decoded tags. Anything but an object whose phase is
// exactly u_realizaciji or planirani counts as realizovani.
func PhaseOf(tags ProjectTags) Phase {
	if tags.Kind != TagsObject || tags.Phase == nil {
		return PhaseRealizovani
	}
	if phase, ok := ParsePhase(*tags.Phase); ok {
		return phase
	}
	return PhaseRealizovani
}

// Phase classifies the project from its stored tags.
func (p Project) Phase() Phase {
	return PhaseOf(ParseProjectTags(p.Tags))
}

// FilterByPhase keeps the projects in the given phase, preserving order.
func FilterByPhase(projects []Project, phase Phase) []Project {
	filtered := make([]Project, 0, len(projects))
	for _, project := range projects {
		if project.Phase() == phase {
			filtered = append(filtered, project)
		}
	}
	return filtered
}
