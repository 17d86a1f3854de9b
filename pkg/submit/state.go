package submit

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
)

// ErrorState is a server-reported or transport error shown in the banner.
type ErrorState struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
	// Fields holds field level messages reported by the CMS, keyed by the
	// name it used.
	Fields map[string]string `json:"fields,omitempty"`
}

// Banner formats the error as "<status>: <message>", using 500 when the
// status is unknown.
func (e ErrorState) Banner() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = "500"
	}
	return fmt.Sprintf("%s: %s", status, e.Message)
}

// UIState is the mutable state of one form block mount.
type UIState struct {
	Loading   bool        `json:"loading"`
	Submitted bool        `json:"submitted"`
	Error     *ErrorState `json:"error,omitempty"`
	// Redirect is the resolved navigation target once one was handed to the
	// navigator.
	Redirect string `json:"redirect,omitempty"`
}

// Idle reports the initial state.
func (s UIState) Idle() bool {
	return !s.Loading && !s.Submitted && s.Error == nil
}

func (s UIState) clone() UIState {
	if s.Error != nil {
		errState := *s.Error
		if len(errState.Fields) > 0 {
			fields := make(map[string]string, len(errState.Fields))
			for name, msg := range errState.Fields {
				fields[name] = msg
			}
			errState.Fields = fields
		}
		s.Error = &errState
	}
	return s
}

// View is the render state derived from a block and its UIState. The error
// banner is additive and never hides the form.
type View struct {
	ShowIntro        bool   `json:"showIntro"`
	ShowLoading      bool   `json:"showLoading"`
	ShowConfirmation bool   `json:"showConfirmation"`
	ShowForm         bool   `json:"showForm"`
	Redirecting      bool   `json:"redirecting"`
	ShowError        bool   `json:"showError"`
	Banner           string `json:"banner,omitempty"`
}

// DeriveView maps state onto what the block renders.
func DeriveView(block model.FormBlock, state UIState) View {
	confirmation := block.Form.ConfirmationType
	view := View{
		ShowIntro:        block.EnableIntro && !block.IntroContent.Empty() && !state.Submitted,
		ShowLoading:      state.Loading && !state.Submitted,
		ShowConfirmation: !state.Loading && state.Submitted && confirmation != model.ConfirmationRedirect,
		ShowForm:         !state.Submitted,
		Redirecting:      state.Submitted && confirmation == model.ConfirmationRedirect,
	}
	if state.Error != nil {
		view.ShowError = true
		view.Banner = state.Error.Banner()
	}
	return view
}
