// Package collect implements the "gcmap collect" command. It shows the two
// registration scopes at work: scoped maps disappear from the collector once
// they are dropped, permanent maps stay registered until the shutdown.
package collect
