package question

import "strings"

// Static question bank. Role keys are matched by substring against the
// lowercased role name.

var generalQuestions = []string{
	"Tell me about yourself and your professional background.",
	"What are your greatest strengths and how do they help you at work?",
	"Where do you see yourself in five years?",
	"Why are you interested in this role?",
	"Describe a time you had to learn something new quickly.",
	"What motivates you to do your best work?",
	"How do you handle feedback and criticism?",
	"What accomplishment are you most proud of?",
}

var technicalQuestions = []string{
	"Walk me through how you would approach debugging a system that suddenly became slow.",
	"How do you decide when code or a process needs to be refactored?",
	"Describe a technical decision you made that involved significant trade-offs.",
	"How do you keep your technical skills current?",
	"Explain a complex technical concept to a non-technical audience.",
	"How do you approach testing and quality in your work?",
}

var roleBanks = []struct {
	key  string
	bank []string
}{
	{"software engineer", []string{
		"Describe the architecture of a system you designed or significantly contributed to.",
		"Tell me about a challenging bug you tracked down. How did you approach it?",
		"How do you handle disagreements about technical direction within your team?",
		"What does code quality mean to you, and how do you enforce it?",
		"Describe a time you had to optimize the performance of an application.",
	}},
	{"data scientist", []string{
		"Walk me through a data project end to end, from raw data to delivered insight.",
		"How do you decide which model to use for a given problem?",
		"Describe a time your analysis changed a business decision.",
		"How do you handle missing or messy data?",
		"Explain how you validate that a model is working in production.",
	}},
	{"product manager", []string{
		"How do you prioritize a backlog when everything feels urgent?",
		"Describe a product decision you made with incomplete data.",
		"Tell me about a feature you shipped that failed. What did you learn?",
		"How do you balance stakeholder requests against user needs?",
		"Walk me through how you would design a roadmap for a new product.",
	}},
	{"marketing", []string{
		"Describe a campaign you ran and how you measured its success.",
		"How do you identify and reach a new target audience?",
		"Tell me about a time you had to pivot a strategy mid-campaign.",
		"How do you balance brand building against short-term conversion goals?",
		"What channels have you found most effective, and why?",
	}},
}

// Resume-derived prompts keyed by trigger keywords; first match wins.
var resumePrompts = []struct {
	triggers []string
	prompt   string
}{
	{[]string{"project"}, "I see you've worked on several projects. Pick one from your resume and walk me through your specific contribution."},
	{[]string{"team", "lead"}, "Your resume mentions team experience. Tell me about a time you led or influenced a team through a difficult stretch."},
	{[]string{"problem", "challenge"}, "Your resume highlights problem solving. Describe the hardest problem you faced and how you worked through it."},
}

// roleBank returns the bank for the role, matched by substring, or nil.
func roleBank(role string) []string {
	lower := strings.ToLower(role)
	for _, rb := range roleBanks {
		if strings.Contains(lower, rb.key) {
			return rb.bank
		}
	}
	return nil
}
