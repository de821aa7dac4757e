package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already canonical", input: "requests", want: "requests"},
		{name: "uppercase", input: "Django", want: "django"},
		{name: "underscore", input: "Flask_SQLAlchemy", want: "flask-sqlalchemy"},
		{name: "dots", input: "zope.interface", want: "zope-interface"},
		{name: "separator runs", input: "foo--_..bar", want: "foo-bar"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeName(tt.input))
		})
	}
}
