package pipeline

// Stage - человекочитаемое описание шага.
type Stage struct {
	Step        Step   `json:"step"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var stages = [...]Stage{
	{StepProfileCreated, "Profile Created", "Profile created, no application yet"},
	{StepApplication, "Application", "Application in progress"},
	{StepHRReview, "HR Review", "Application is being reviewed by HR"},
	{StepTraining, "Training", "Approved by HR, training modules are open"},
	{StepManagerInterview, "Manager Interview", "Interview with the hiring manager"},
	{StepPaidProject, "Paid Project", "Paid project or sales task"},
	{StepHired, "Hired", "Candidate has been hired"},
	{StepClosed, "Closed", "Application was rejected or archived"},
}

// StageInfo возвращает описание шага; для шага вне диапазона - "Unknown".
func StageInfo(step Step) Stage {
	if !step.IsValid() {
		return Stage{Step: step, Name: "Unknown", Description: "Unknown stage"}
	}
	return stages[step]
}
