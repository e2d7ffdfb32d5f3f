package validate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasnoah/triviabuild/internal/console"
)

const (
	SettingsFile  = "src/main/resources/trivia/default_settings.json"
	QuestionsFile = "src/main/resources/trivia/default_questions.json"

	// ExpectedQuestions is the size of the bundled question pool.
	ExpectedQuestions = 100
)

// RequiredSettings lists the keys the bundled settings must define.
var RequiredSettings = []string{
	"enabled",
	"questionDurationSeconds",
	"cooldownSeconds",
	"maxAttempts",
	"answerPrefix",
	"showAnswerInstructions",
	"battleModeWrongGuessBroadcast",
	"battleModeShowWrongGuesserName",
	"rewardCountOverride",
	"punishEffectDurationSecondsMin",
	"punishEffectDurationSecondsMax",
	"punishEffectAmplifierMin",
	"punishEffectAmplifierMax",
	"itemBlacklist",
}

// CheckJSONConfigs validates the bundled settings and questions files.
// A missing file aborts the check; a broken settings file does not stop the
// questions file from being checked.
func CheckJSONConfigs(root string, out *console.Printer) Result {
	var res Result
	out.Info("Validating trivia JSON configuration files...")

	settingsPath := filepath.Join(root, filepath.FromSlash(SettingsFile))
	questionsPath := filepath.Join(root, filepath.FromSlash(QuestionsFile))

	for _, p := range []struct{ rel, abs string }{
		{SettingsFile, settingsPath},
		{QuestionsFile, questionsPath},
	} {
		if _, err := os.Stat(p.abs); err != nil {
			out.Error("Missing bundled resource: %s", p.rel)
			res.Errorf("Missing %s", filepath.Base(p.rel))
			return res
		}
	}

	checkSettings(settingsPath, out, &res)
	checkQuestions(questionsPath, out, &res)
	return res
}

func checkSettings(path string, out *console.Printer, res *Result) {
	name := filepath.Base(path)

	var settings map[string]json.RawMessage
	if err := readJSON(path, &settings); err != nil {
		out.Error("%s invalid JSON: %v", name, err)
		res.Errorf("%s invalid JSON: %v", name, err)
		return
	}
	if settings == nil {
		out.Error("%s must contain a top-level object", name)
		res.Errorf("%s invalid structure", name)
		return
	}

	var missing []string
	for _, key := range RequiredSettings {
		if _, ok := settings[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		list := strings.Join(missing, ", ")
		out.Error("%s missing keys: %s", name, list)
		res.Errorf("%s missing required keys: %s", name, list)
		return
	}
	out.Success("%s structure OK", name)
}

func checkQuestions(path string, out *console.Printer, res *Result) {
	name := filepath.Base(path)

	var doc map[string]json.RawMessage
	if err := readJSON(path, &doc); err != nil {
		out.Error("%s invalid JSON: %v", name, err)
		res.Errorf("%s invalid JSON: %v", name, err)
		return
	}

	var questions []json.RawMessage
	raw, ok := doc["questions"]
	if !ok || json.Unmarshal(raw, &questions) != nil || questions == nil {
		out.Error("%s must contain a top-level 'questions' array", name)
		res.Errorf("%s invalid structure", name)
		return
	}

	res.QuestionCount = len(questions)
	if len(questions) != ExpectedQuestions {
		out.Warn("%s contains %d questions (expected %d)", name, len(questions), ExpectedQuestions)
		res.Warnf("%s question count %d != %d", name, len(questions), ExpectedQuestions)
		return
	}
	out.Success("%s has %d questions", name, ExpectedQuestions)
}

// readJSON decodes a whole file. A top-level value of the wrong shape (an
// array where an object is expected) is reported as a decode error.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
