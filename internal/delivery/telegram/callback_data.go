package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionAnswer = "ans"
	actionReport = "report"
	actionStart  = "start"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildAnswerCallback builds callback data for selecting a question option.
func buildAnswerCallback(sessionID int64, questionID int, optionID string) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			strconv.FormatInt(sessionID, 10),
			strconv.Itoa(questionID),
			optionID,
		},
	}.encode()
}

// parseAnswerCallback extracts the answer parameters back out.
func parseAnswerCallback(cd callbackData) (sessionID int64, questionID int, optionID string, ok bool) {
	if cd.Action != actionAnswer || len(cd.Params) != 3 {
		return 0, 0, "", false
	}

	sessionID, err1 := strconv.ParseInt(cd.Params[0], 10, 64)
	questionID, err2 := strconv.Atoi(cd.Params[1])
	optionID = cd.Params[2]
	if err1 != nil || err2 != nil || optionID == "" {
		return 0, 0, "", false
	}

	return sessionID, questionID, optionID, true
}

// buildReportCallback builds callback data for requesting the full report.
func buildReportCallback() string {
	return actionReport
}

// buildStartCallback builds callback data for restarting the test.
func buildStartCallback() string {
	return actionStart
}
