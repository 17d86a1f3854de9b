package submit

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/model"
)

func TestDeriveView(t *testing.T) {
	intro := model.RichText{Markdown: "Say hello"}
	messageBlock := model.FormBlock{
		EnableIntro:  true,
		IntroContent: intro,
		Form:         model.FormDefinition{ID: "f", ConfirmationType: model.ConfirmationMessage},
	}
	redirectBlock := messageBlock
	redirectBlock.Form.ConfirmationType = model.ConfirmationRedirect

	cases := []struct {
		name  string
		block model.FormBlock
		state UIState
		want  View
	}{
		{
			name:  "idle",
			block: messageBlock,
			want:  View{ShowIntro: true, ShowForm: true},
		},
		{
			name:  "loading",
			block: messageBlock,
			state: UIState{Loading: true},
			want:  View{ShowIntro: true, ShowLoading: true, ShowForm: true},
		},
		{
			name:  "submitted message",
			block: messageBlock,
			state: UIState{Submitted: true},
			want:  View{ShowConfirmation: true},
		},
		{
			name:  "submitted redirect",
			block: redirectBlock,
			state: UIState{Submitted: true, Redirect: "/thanks"},
			want:  View{Redirecting: true},
		},
		{
			name:  "error keeps form",
			block: messageBlock,
			state: UIState{Error: &ErrorState{Status: "422", Message: "Email invalid"}},
			want:  View{ShowIntro: true, ShowForm: true, ShowError: true, Banner: "422: Email invalid"},
		},
		{
			name:  "error without status",
			block: model.FormBlock{Form: model.FormDefinition{ID: "f"}},
			state: UIState{Error: &ErrorState{Message: MessageGeneric}},
			want:  View{ShowForm: true, ShowError: true, Banner: "500: Something went wrong."},
		},
	}

	for _, tc := range cases {
		got := DeriveView(tc.block, tc.state)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: view mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestDeriveView_IntroRequiresContent(t *testing.T) {
	block := model.FormBlock{EnableIntro: true, Form: model.FormDefinition{ID: "f"}}
	if DeriveView(block, UIState{}).ShowIntro {
		t.Fatalf("intro without content should not show")
	}
}
