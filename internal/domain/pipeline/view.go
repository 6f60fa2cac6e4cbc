package pipeline

// Facts - сохранённые поля кандидата, из которых выводится всё остальное.
type Facts struct {
	Status        string
	StoredStep    Step
	HasResume     bool
	HasAboutMe    bool
	HasSalesPitch bool
}

// View - производное представление кандидата для дашбордов и списков.
type View struct {
	Step                  Step  `json:"current_step"`
	Stage                 Stage `json:"stage"`
	Badge                 Badge `json:"badge"`
	ApplicationSubmitted  bool  `json:"application_submitted"`
	CanAccessTraining     bool  `json:"can_access_training"`
	ShowApplicationPrompt bool  `json:"show_application_prompt"`
}

// Resolve собирает представление из фактов. Любой ввод допустим.
func Resolve(f Facts) View {
	step := ResolveStep(f.Status, f.StoredStep)
	submitted := IsApplicationSubmitted(f.HasResume, f.HasAboutMe, f.HasSalesPitch)

	return View{
		Step:                  step,
		Stage:                 StageInfo(step),
		Badge:                 BadgeFor(f.Status),
		ApplicationSubmitted:  submitted,
		CanAccessTraining:     CanAccessTraining(f.Status, f.StoredStep, submitted),
		ShowApplicationPrompt: !submitted && !step.IsTerminal(),
	}
}
