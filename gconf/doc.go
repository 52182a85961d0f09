/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns one configuration object, stored as a singleton under
the "_c:<package name>" key. The initial value is loaded from the genesis
file and every later change must go through the extension logic, for
example a cosigned threshold change.
*/
package gconf
