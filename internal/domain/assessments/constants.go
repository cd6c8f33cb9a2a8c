package assessments

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// transitions lists every move the lifecycle allows. Nothing leads back to in_progress.
var transitions = map[Status][]Status{
	StatusInProgress: {StatusCompleted, StatusArchived},
	StatusCompleted:  {StatusArchived},
}

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusInProgress, StatusCompleted, StatusArchived:
		return s, true
	default:
		return "", false
	}
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// maxKPISaveAttempts bounds the re-read and merge loop when another save
// for the same assessment lands between read and write.
const maxKPISaveAttempts = 5
