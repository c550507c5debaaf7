package personalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCanonicalTokens(t *testing.T) {
	contact := Contact{"email": "ann@x.com", "name": "Ann", "company": "Acme", "role": "CTO"}

	assert.Equal(t, "Hi Ann from Acme", Render("Hi {{Name}} from {{Company}}", contact))
	assert.Equal(t, "Dear CTO", Render("Dear {{Role}}", contact))
	// Token case does not matter for the canonical three
	assert.Equal(t, "Ann Ann Ann", Render("{{name}} {{NAME}} {{Name}}", contact))
}

func TestRenderFallbacks(t *testing.T) {
	bare := Contact{"email": "b@x.com"}

	assert.Equal(t, "Hi Friend from your company", Render("Hi {{Name}} from {{Company}}", bare))
	assert.Equal(t, "Dear professional", Render("Dear {{Role}}", bare))
}

func TestRenderUnknownTokenStaysLiteral(t *testing.T) {
	contact := Contact{"email": "a@x.com", "name": "Ann"}

	assert.Equal(t, "Hi {{Foo}}", Render("Hi {{Foo}}", contact))
	// Custom fields resolve by exact name
	withCustom := Contact{"email": "a@x.com", "City": "Berlin"}
	assert.Equal(t, "From Berlin", Render("From {{City}}", withCustom))
	assert.Equal(t, "From {{city}}", Render("From {{city}}", withCustom))
}

func TestRenderIsTotal(t *testing.T) {
	contact := Contact{"email": "a@x.com"}

	// Degenerate inputs never panic and pass through untouched
	assert.Equal(t, "", Render("", contact))
	assert.Equal(t, "{{", Render("{{", contact))
	assert.Equal(t, "no tokens here", Render("no tokens here", contact))
	assert.Equal(t, DefaultName, Render("{{ Name }}", contact), "keys are trimmed")
}

func TestFindContact(t *testing.T) {
	contacts := []Contact{
		{"email": "ann@x.com", "name": "Ann"},
		{"Email": "bob@x.com", "name": "Bob"},
	}

	assert.Equal(t, "Ann", FindContact(contacts, "ann@x.com")["name"])
	assert.Equal(t, "Bob", FindContact(contacts, "BOB@x.com")["name"])

	missing := FindContact(contacts, "nobody@x.com")
	assert.Equal(t, "nobody@x.com", missing.Email())
	assert.Equal(t, "Hi Friend", Render("Hi {{Name}}", missing))
}
