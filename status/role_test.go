// +build unit

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("provider")
	require.NoError(t, err)
	assert.Equal(t, RoleProvider, role)

	role, err = ParseRole("Requestor")
	require.NoError(t, err)
	assert.Equal(t, RoleRequestor, role)

	role, err = ParseRole("PROVIDER")
	require.NoError(t, err)
	assert.Equal(t, RoleProvider, role)

	_, err = ParseRole("observer")
	require.Error(t, err)

	var invalidRole *InvalidRoleError
	require.ErrorAs(t, err, &invalidRole)
	assert.Equal(t, "observer", invalidRole.Value)
}

func TestDecodeRole(t *testing.T) {
	role, err := DecodeRole("P")
	require.NoError(t, err)
	assert.Equal(t, RoleProvider, role)

	role, err = DecodeRole("R")
	require.NoError(t, err)
	assert.Equal(t, RoleRequestor, role)

	_, err = DecodeRole("X")
	var invalidRole *InvalidRoleError
	require.ErrorAs(t, err, &invalidRole)

	// the storage discriminant is case-sensitive
	_, err = DecodeRole("p")
	require.Error(t, err)
}

func TestRoleCodec(t *testing.T) {
	assert.Equal(t, "P", RoleProvider.Code())
	assert.Equal(t, "R", RoleRequestor.Code())
	assert.Equal(t, "provider", RoleProvider.String())
	assert.Equal(t, "requestor", RoleRequestor.String())
}
