package homework

import "fmt"

// ParseStatus turns one homework record into the notification text for its
// current review status. It is a pure function of the record: the same
// input always yields the same message or the same error.
func ParseStatus(record Record) (string, error) {
	var missing []string
	if record.HomeworkName == nil {
		missing = append(missing, "homework_name")
	}
	if record.Status == nil {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return "", &MissingKeysError{Keys: missing}
	}

	verdict, ok := Verdict(Status(*record.Status))
	if !ok {
		return "", &UnknownStatusError{Status: *record.Status}
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", *record.HomeworkName, verdict), nil
}
