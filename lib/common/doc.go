// Package common holds the pieces shared by all packages of this module:
// the logger names and the custom dragonboat logger factory that formats
// every line as "LEVEL | logger | message".
package common
