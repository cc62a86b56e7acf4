package main

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-ats/pkg/domain"
	"github.com/tendant/simple-ats/pkg/provisioning"
)

func TestPrintResult(t *testing.T) {
	tenant := &domain.Tenant{ID: uuid.New(), Name: "Acme K.K.", Key: "acme-kk", Active: true}

	t.Run("with admin", func(t *testing.T) {
		var buf bytes.Buffer
		printResult(&buf, &provisioning.CreationResult{
			Tenant:            tenant,
			AdminUser:         &domain.User{Email: "admin@acme.test", Role: domain.RoleTenantAdmin},
			TemporaryPassword: "Xy7#kP9mQ2vR4wZa",
			AdminCreated:      true,
		})
		out := buf.String()
		assert.Contains(t, out, "Acme K.K. (acme-kk)")
		assert.Contains(t, out, "admin@acme.test (tenant_admin)")
		assert.Contains(t, out, "Xy7#kP9mQ2vR4wZa")
	})

	t.Run("without admin", func(t *testing.T) {
		var buf bytes.Buffer
		printResult(&buf, &provisioning.CreationResult{Tenant: tenant})
		assert.Contains(t, buf.String(), "admin:     none")
		assert.NotContains(t, buf.String(), "temporary password")
	})
}

func TestCommands(t *testing.T) {
	assert.Equal(t, "provision", provisionCmd().Name())
	assert.Equal(t, "bootstrap-platform", bootstrapPlatformCmd().Name())
	assert.Equal(t, "prune-sessions", pruneSessionsCmd().Name())

	for _, flag := range []string{"name", "tenant-id"} {
		f := provisionCmd().Flags().Lookup(flag)
		if assert.NotNil(t, f, flag) {
			assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag], flag)
		}
	}

	sub := map[string]bool{}
	for _, c := range migrateCmd().Commands() {
		sub[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"up": true, "down": true, "status": true}, sub)
}
