// internal/providers/email/renderer_test.go
package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name        string
		req         RenderRequest
		wantSubject string
		wantInHTML  string
		notInHTML   string
	}{
		{
			name:        "reinstatement",
			req:         RenderRequest{OrganizationID: "org-1", Type: TemplateCompliant},
			wantSubject: "Your account has been reinstated",
			wantInHTML:  "back in good standing",
		},
		{
			name:        "suspension with appeal link",
			req:         RenderRequest{OrganizationID: "org-1", Type: TemplateSuspended, AppealURL: "https://appeals.example.com/appeal?token=abc"},
			wantSubject: "Your account has been suspended",
			wantInHTML:  `href="https://appeals.example.com/appeal?token=abc"`,
		},
		{
			name:        "suspension without appeal link",
			req:         RenderRequest{OrganizationID: "org-1", Type: TemplateSuspended},
			wantSubject: "Your account has been suspended",
			wantInHTML:  "Payments and payouts are paused",
			notInHTML:   "submit an appeal",
		},
		{
			name:        "ban",
			req:         RenderRequest{OrganizationID: "org-1", Type: TemplateBanned},
			wantSubject: "Your account has been banned",
			wantInHTML:  "permanently banned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := r.Render(tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSubject, rendered.Subject)
			assert.Contains(t, rendered.HTML, tt.wantInHTML)
			assert.NotEmpty(t, rendered.Text)
			if tt.notInHTML != "" {
				assert.NotContains(t, rendered.HTML, tt.notInHTML)
			}
		})
	}
}

func TestRenderer_Render_UnknownType(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(RenderRequest{OrganizationID: "org-1", Type: TemplateType("Shadowbanned")})
	assert.Error(t, err)
}

func TestRenderer_Render_TextBodyCarriesAppealURL(t *testing.T) {
	r := NewRenderer()

	rendered, err := r.Render(RenderRequest{
		OrganizationID: "org-1",
		Type:           TemplateSuspended,
		AppealURL:      "https://appeals.example.com/appeal?token=abc",
	})
	require.NoError(t, err)
	assert.Contains(t, rendered.Text, "https://appeals.example.com/appeal?token=abc")
}
