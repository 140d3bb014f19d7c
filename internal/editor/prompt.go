package editor

// PromptFunc observes every keystroke of an interactive prompt together
// with the input typed so far. It runs after the input has been updated,
// including for the terminating Enter or Escape.
type PromptFunc func(input []byte, k Key)

// prompt shows format (with %s replaced by the input) in the message bar
// and reads keys until Enter on non-empty input or Escape. It returns the
// input and false if the prompt was cancelled.
func (e *Editor) prompt(format string, fn PromptFunc) ([]byte, bool, error) {
	var input []byte
	for {
		e.SetStatusMessage(format, input)
		if err := e.Refresh(); err != nil {
			return nil, false, err
		}

		k, err := e.readKey()
		if err != nil {
			return nil, false, err
		}

		switch {
		case k == KeyDelete || k == CtrlKey('h') || k == KeyBackspace:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case k == KeyEscape:
			e.SetStatusMessage("")
			if fn != nil {
				fn(input, k)
			}
			return nil, false, nil
		case k == KeyEnter:
			if len(input) > 0 {
				e.SetStatusMessage("")
				if fn != nil {
					fn(input, k)
				}
				return input, true, nil
			}
		case !k.IsNamed() && !k.IsControl() && k < 128:
			input = append(input, byte(k))
		}

		if fn != nil {
			fn(input, k)
		}
	}
}
