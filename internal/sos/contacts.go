package sos

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// ErrInvalidPhone is returned for a phone number without any digit.
var ErrInvalidPhone = errors.New("invalid phone number")

// indiaCountryCode is prepended to ten-digit mobile numbers for messaging links.
const indiaCountryCode = "91"

// Contact is a helpline shown in the emergency panel.
type Contact struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
	CallLink    string `json:"call_link"`
}

var contacts = []Contact{
	{Name: "Emergency Response", Number: "112", Description: "Single emergency number for police, fire and ambulance"},
	{Name: "Police", Number: "100", Description: "Police control room"},
	{Name: "Ambulance", Number: "108", Description: "Emergency medical services"},
	{Name: "Fire", Number: "101", Description: "Fire and rescue services"},
	{Name: "Women Helpline", Number: "1091", Description: "Assistance for women in distress"},
	{Name: "Tourist Helpline", Number: "1363", Description: "Multilingual tourist information and assistance"},
	{Name: "Child Helpline", Number: "1098", Description: "Assistance for children in need"},
}

// Contacts returns the helplines with their call links.
func Contacts() []Contact {
	result := make([]Contact, len(contacts))
	for i, c := range contacts {
		c.CallLink = "tel:" + c.Number
		result[i] = c
	}

	return result
}

// CallLink returns a tel: link for the number, keeping a leading plus sign.
func CallLink(phone string) (string, error) {
	digits := onlyDigits(phone)
	if digits == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		digits = "+" + digits
	}

	return "tel:" + digits, nil
}

// MessageLink returns a WhatsApp click-to-chat link with prefilled text.
// Ten-digit numbers are treated as Indian mobiles.
func MessageLink(phone, text string) (string, error) {
	digits := onlyDigits(phone)
	if digits == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	const localLength = 10
	if len(digits) == localLength {
		digits = indiaCountryCode + digits
	}

	link := "https://wa.me/" + digits
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}

	return link, nil
}

// ShareLocationText is the message sent to a contact asking for help.
func ShareLocationText(at *models.Coordinates) string {
	if at == nil {
		return "I need help. I am travelling in Jharkhand and cannot share my location right now."
	}

	return fmt.Sprintf("I need help. My current location: https://www.google.com/maps?q=%f,%f",
		at.Latitude, at.Longitude)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
