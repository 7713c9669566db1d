package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/auth"
	"carpool/internal/model"
)

func render(t *testing.T, name string, page Page) string {
	t.Helper()
	r := MustNewRenderer()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, page, nil))
	return buf.String()
}

func session() *auth.Claims {
	return &auth.Claims{UserID: uuid.NewString(), Name: "Test User", Email: "test@example.com", Role: model.RoleUser}
}

func TestRenderer_LoginRegister(t *testing.T) {
	out := render(t, "login_register", Page{
		Title:    "Login / Register",
		Flash:    "Invalid credentials.",
		FlashFor: "login",
	})

	assert.Contains(t, out, `<form action="/auth/login" method="POST">`)
	assert.Contains(t, out, `<form action="/auth/register" method="POST">`)
	assert.Contains(t, out, "<p>Invalid credentials.</p>")
	assert.NotContains(t, out, "/logout")
}

type dashboardData struct {
	Recent []model.Carpool
	Mine   []model.Carpool
}

func TestRenderer_Dashboard(t *testing.T) {
	out := render(t, "dashboard", Page{
		Title:   "Dashboard",
		Session: session(),
		Data: dashboardData{Recent: []model.Carpool{{
			ID:            uuid.New(),
			CarName:       "Test Car",
			Location:      "Test Location",
			DepartureTime: time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
			Price:         decimal.NewFromInt(100),
			Gender:        model.GenderMale,
			TotalSeats:    3,
			User:          model.User{Name: "Driver"},
		}}},
	})

	assert.Contains(t, out, "<title>Dashboard | Carpool</title>")
	assert.Contains(t, out, `<a href="/logout">Logout</a>`)
	assert.Contains(t, out, "Test Car")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "Mon 01 Dec 2025 10:00 UTC")
	assert.Contains(t, out, "You have not offered a ride yet.")
	assert.NotContains(t, out, "/admin/users")
}

func TestRenderer_DashboardOwnOffers(t *testing.T) {
	id := uuid.New()
	out := render(t, "dashboard", Page{
		Title:   "Dashboard",
		Session: session(),
		Data: dashboardData{Mine: []model.Carpool{{
			ID:            id,
			CarName:       "My Car",
			Location:      "Home",
			DepartureTime: time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
			TotalSeats:    2,
		}}},
	})

	assert.Contains(t, out, "No rides offered yet.")
	assert.Contains(t, out, `<a href="/carpools/`+id.String()+`">My Car from Home</a>`)
	assert.NotContains(t, out, "You have not offered a ride yet.")
}

func TestRenderer_EscapesUserContent(t *testing.T) {
	out := render(t, "chats", Page{
		Title:   "Messages",
		Session: session(),
		Data: []struct {
			With model.User
			Last model.Chat
		}{{With: model.User{Name: "<b>Mallory</b>"}, Last: model.Chat{Body: "<script>x</script>"}}},
	})

	assert.NotContains(t, out, "<script>x</script>")
	assert.Contains(t, out, "&lt;b&gt;Mallory&lt;/b&gt;")
}

func TestRenderer_AdminLink(t *testing.T) {
	admin := session()
	admin.Role = model.RoleAdmin

	out := render(t, "admin_users", Page{Title: "Users", Session: admin, Data: []model.User{{Name: "Admin User", Role: model.RoleAdmin}}})
	assert.Contains(t, out, `<a href="/admin/users">Users</a>`)
	assert.Contains(t, out, "Admin User")
}

func TestRenderer_AllPagesParse(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	for _, name := range []string{"login_register", "dashboard", "carpool_new", "carpool_show", "chats", "chat", "admin_users", "error"} {
		assert.Contains(t, r.pages, name)
	}
	assert.NotContains(t, r.pages, "layout")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, MustNewRenderer().Render(&buf, "missing", Page{}, nil))
}
