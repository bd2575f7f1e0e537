package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	t.Run("valid settings", func(t *testing.T) {
		assert.NoError(t, v.Validate(validSettings()))
	})

	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"uppercase application name", func(s *Settings) { s.ApplicationName = "Shop" }, "applicationName"},
		{"empty locations", func(s *Settings) { s.Locations = []string{} }, "locations"},
		{"empty location name", func(s *Settings) { s.Locations = []string{"northeurope", ""} }, "locations.1"},
		{"zero cpu", func(s *Settings) { s.ContainerCPU = 0 }, "containerCpu"},
		{"negative min replicas", func(s *Settings) { s.ContainerMinReplicas = -1 }, "containerMinReplicas"},
		{"max below min", func(s *Settings) { s.ContainerMinReplicas = 5; s.ContainerMaxReplicas = 2 }, "containerMaxReplicas"},
		{"zero concurrent requests", func(s *Settings) { s.ContainerConcurrentRequests = 0 }, "containerConcurrentRequests"},
		{"malformed memory", func(s *Settings) { s.ContainerMemory = "half a gig" }, "containerMemory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)

			err := v.Validate(s)
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, len(verrs))
			for i, e := range verrs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "containerCpu", Message: "invalid value 0"},
	}
	assert.Contains(t, errs.Error(), "containerCpu: invalid value 0")
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
