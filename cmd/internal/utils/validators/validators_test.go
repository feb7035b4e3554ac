package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	NNI      string   `validate:"required,nni"`
	Phone    string   `validate:"required,mrphone"`
	Domains  []string `validate:"required,min=1,nodupes,dive,domain"`
	Deadline string   `validate:"required,isodate"`
	Password string   `validate:"required,hasupper,haslower,hasdigit,hasspecial"`
}

func validSample() sample {
	return sample{
		NNI:      "1234567890",
		Phone:    "36123456",
		Domains:  []string{"civil", "informatique"},
		Deadline: "2030-01-31",
		Password: "Secret#123",
	}
}

func TestCustomValidators(t *testing.T) {
	validate := New()
	assert.NoError(t, validate.Struct(validSample()))

	tests := map[string]func(s *sample){
		"bad nni":       func(s *sample) { s.NNI = "123" },
		"bad phone":     func(s *sample) { s.Phone = "99999999" },
		"unknown":       func(s *sample) { s.Domains = []string{"astrologie"} },
		"dupes":         func(s *sample) { s.Domains = []string{"civil", "civil"} },
		"bad date":      func(s *sample) { s.Deadline = "31/01/2030" },
		"weak password": func(s *sample) { s.Password = "password" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := validSample()
			mutate(&s)
			assert.Error(t, validate.Struct(s))
		})
	}
}
