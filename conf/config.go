package conf

/*
   Package conf wraps viper to give the bpa app one place to read its
   configuration from. Locally the values come from an env file that is
   loaded once at startup; in deployed environments the file is absent
   and lookups fall straight through to the process environment.

   Assumptions:
   1. The configuration file is an env file.
   2. Once loaded, the configuration stays immutable for the lifetime of
   the process. Tests are the exception and go through SetEnv/UnsetEnv.
*/

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// An instance of the viper struct holding the loaded configuration. Only
// reachable through GetEnv, LookupEnv, SetEnv, and UnsetEnv.
var envVars viper.Viper

// Tracks whether a config file was found and parsed. Lookups degrade to
// the process environment in the two failure states.
const (
	configgood    uint8 = 0
	configbad     uint8 = 1
	noconfigfound uint8 = 2
)

var state uint8 = configgood

// setup builds the viper instance for the env file in dir. Called once
// from init.
func setup(dir string) *viper.Viper {

	var v = viper.New()
	v.SetConfigName("local")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	// Viper is lazy, force the read and parse here
	var err = v.ReadInConfig()

	if err != nil {
		state = configbad
	}

	return v

}

// init runs once when the package is first imported, regardless of how
// many packages import conf.
func init() {

	// Possible config file locations: local development and deployed.
	var locationSlice = [2]string{
		"/go/src/github.com/fleetops/bpa-app/shared_files/decrypted",
		"/etc/bpa-app",
	}

	if success, loc := findEnv(locationSlice[:]); success {
		envVars = *setup(loc)
	} else {
		// Checked every location, no config file found
		state = noconfigfound
	}
}

// findEnv walks the candidate locations in order and reports the first
// one containing a local.env file.
func findEnv(location []string) (bool, string) {

	if _, err := os.Stat(location[0] + "/local.env"); err == nil {
		return true, location[0]
	}

	// Base case: every location checked, nothing found
	if len(location) == 1 {
		return false, ""
	}

	return findEnv(location[1:])
}

// GetEnv retrieves the value stored in conf for key. If it does not
// exist, the empty string is returned.
func GetEnv(key string) string {

	if state == configgood {

		var value = envVars.GetString(key)
		var b bool

		// Even with a good config file, a key missing from conf is
		// still looked up in the environment so ad hoc overrides work.
		if value == "" {
			// Copy it into conf to avoid repeated OS calls. UnsetEnv
			// has to clear both places for the same reason.
			value, b = os.LookupEnv(key)

			if b {
				test := &testing.T{}
				var _ = SetEnv(test, key, value)
			}

		}

		return value
	}

	// No usable config file, fall back to the environment
	return os.Getenv(key)

}

// LookupEnv augments os.LookupEnv to consult the viper struct first.
func LookupEnv(key string) (string, bool) {

	if state == configgood {
		if value := envVars.Get(key); value != nil && value != "" {
			return value.(string), true
		}

		// Not in conf, check the OS and pull the value over on a hit
		if v, exist := os.LookupEnv(key); exist {
			test := &testing.T{}
			var _ = SetEnv(test, key, v)
			return v, exist
		}

		return "", false
	}

	return os.LookupEnv(key)

}

// SetEnv adds a key value pair to conf. Outside of this package it
// should only be used by tests. The protect parameter is *testing.T to
// make that scope explicit at the call site.
func SetEnv(protect *testing.T, key string, value string) error {

	var err error

	if state == configgood {
		envVars.Set(key, value)
	} else {
		err = os.Setenv(key, value)
	}

	return err

}

// UnsetEnv clears a variable from both conf and the process
// environment. Like SetEnv, it is meant for this package and tests.
func UnsetEnv(protect *testing.T, key string) error {
	var err error

	if state == configgood {
		envVars.Set(key, "")
	}

	// GetEnv may have copied the value in from the environment, so the
	// environment copy has to go too.
	err = os.Unsetenv(key)

	return err

}
