package homework

// Status is the review state the API reports for one homework submission.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// verdicts maps every recognized status to its chat-facing text.
// The table is fixed; lookups go through Verdict so callers cannot alter it.
var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the display text for a review status. The second return
// value reports whether the status is one of the recognized codes.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Record is one homework submission's payload within an API response.
// Fields are pointers so that an absent key can be told apart from an
// empty value; ParseStatus checks presence before use.
type Record struct {
	HomeworkName *string `json:"homework_name"`
	Status       *string `json:"status"`
}

// StatusPage is the decoded body of one homework-statuses response: the
// list of records plus the cursor marking the next fetch window.
type StatusPage struct {
	Homeworks   []Record
	CurrentDate int64
}
