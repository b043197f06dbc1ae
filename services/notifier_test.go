package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hidromont/site-backend/models"
)

func TestResendNotifier(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	n := NewResendNotifier("re_test", MailSettingsFromConfig(map[string]string{}))
	n.Endpoint = srv.URL

	order := models.Order{ID: 7, Name: "Ana", Email: "ana@example.com", Subject: "Beton", Message: "<b>hitno</b>"}
	if err := n.NotifyOrder(context.Background(), order); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if auth != "Bearer re_test" {
		t.Errorf("authorization = %q", auth)
	}
	if got.From != "Hidromont Jovancic <noreply@hidromontjovancic.rs>" {
		t.Errorf("from = %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "hidromontjovancic@gmail.com" {
		t.Errorf("to = %v", got.To)
	}
	if got.Subject != "[Hidromont] Nova porudzbina #7 - Beton" {
		t.Errorf("subject = %q", got.Subject)
	}
	if got.ReplyTo != "ana@example.com" {
		t.Errorf("reply_to = %q", got.ReplyTo)
	}
	if strings.Contains(got.Html, "<b>hitno</b>") || !strings.Contains(got.Text, "<b>hitno</b>") {
		t.Errorf("message escaping wrong: html=%q text=%q", got.Html, got.Text)
	}
}

func TestResendNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	n := NewResendNotifier("re_test", MailSettings{To: "a@b.rs", From: "x@y.rs"})
	n.Endpoint = srv.URL

	err := n.NotifyOrder(context.Background(), models.Order{ID: 1})
	if err == nil || !strings.Contains(err.Error(), "invalid from address") {
		t.Fatalf("err = %v", err)
	}
}

func TestNotifierFromConfig(t *testing.T) {
	if _, ok := NotifierFromConfig(map[string]string{}).(LogNotifier); !ok {
		t.Error("no api key should give a LogNotifier")
	}
	n, ok := NotifierFromConfig(map[string]string{"RESEND_API_KEY": "k", "ORDER_NOTIFY_EMAIL": "x@y.rs"}).(*ResendNotifier)
	if !ok || n.Mail.To != "x@y.rs" {
		t.Errorf("notifier = %#v", n)
	}
}
