package conf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openxfs/xfsmgr/conf"
	"github.com/openxfs/xfsmgr/wfs"
)

func TestMapStoreOpenQueryClose(t *testing.T) {
	s := conf.NewMapStore()
	s.SetValue(conf.UserRoot, `LOGICAL_SERVICES\cwd`, "provider", "serviceprovider")

	key, err := s.OpenKey(conf.UserRoot, `LOGICAL_SERVICES\cwd`)
	require.NoError(t, err)

	value, err := s.QueryValue(key, "provider")
	require.NoError(t, err)
	require.Equal(t, "serviceprovider", value)

	require.NoError(t, s.CloseKey(key))
	require.ErrorIs(t, s.CloseKey(key), wfs.ErrCfgInvalidKey)
}

func TestMapStorePathsAreCaseInsensitive(t *testing.T) {
	s := conf.NewMapStore()
	s.SetValue(conf.MachineRoot, `SERVICE_PROVIDERS\serviceprovider`, "dllname", "some.dll")

	key, err := s.OpenKey(conf.MachineRoot, `service_providers\ServiceProvider`)
	require.NoError(t, err)
	value, err := s.QueryValue(key, "DLLNAME")
	require.NoError(t, err)
	require.Equal(t, "some.dll", value)
}

func TestMapStoreMissingKeyAndName(t *testing.T) {
	s := conf.NewMapStore()
	s.SetValue(conf.UserRoot, `LOGICAL_SERVICES\cwd`, "provider", "serviceprovider")

	_, err := s.OpenKey(conf.UserRoot, `LOGICAL_SERVICES\missing`)
	require.ErrorIs(t, err, wfs.ErrCfgInvalidKey)

	// Roots are separate trees.
	_, err = s.OpenKey(conf.MachineRoot, `LOGICAL_SERVICES\cwd`)
	require.ErrorIs(t, err, wfs.ErrCfgInvalidKey)

	key, err := s.OpenKey(conf.UserRoot, `LOGICAL_SERVICES\cwd`)
	require.NoError(t, err)
	_, err = s.QueryValue(key, "dllname")
	require.ErrorIs(t, err, wfs.ErrCfgInvalidName)
}

func TestLookupValue(t *testing.T) {
	s := conf.NewMapStore()
	s.SetValue(conf.UserRoot, `LOGICAL_SERVICES\cwd`, "provider", "serviceprovider")

	value, err := conf.LookupValue(s, conf.UserRoot, `LOGICAL_SERVICES\cwd`, "provider")
	require.NoError(t, err)
	require.Equal(t, "serviceprovider", value)

	_, err = conf.LookupValue(s, conf.UserRoot, `LOGICAL_SERVICES\cwd`, "missing")
	require.ErrorIs(t, err, wfs.ErrCfgInvalidName)

	s.DeleteKey(conf.UserRoot, `LOGICAL_SERVICES\cwd`)
	_, err = conf.LookupValue(s, conf.UserRoot, `LOGICAL_SERVICES\cwd`, "provider")
	require.ErrorIs(t, err, wfs.ErrCfgInvalidKey)
}
