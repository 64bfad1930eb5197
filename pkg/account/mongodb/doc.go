// Package mongodb is a registration-capable account driver on MongoDB.
package mongodb
