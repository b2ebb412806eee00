package serverutils

import (
	"strings"
	"testing"

	"askgov-sg/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantErr string
	}{
		{"valid context", &dto.UpdateContextRequest{Location: "Others", Need: "CPF"}, ""},
		{"unknown location", &dto.UpdateContextRequest{Location: "Malaysia", Need: "CPF"}, "location must be one of [Singapore Others]"},
		{"missing need", &dto.UpdateContextRequest{Location: "Singapore"}, "need is required"},
		{"ask without selectors", &dto.AskRequest{Query: "cpf"}, ""},
		{"ask with bad need", &dto.AskRequest{Query: "cpf", Need: "HDB"}, "need must be one of [CPF]"},
		{"ask too long", &dto.AskRequest{Query: strings.Repeat("a", 2001)}, "query must be at most 2000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
