/*
Package utils provides the decorators shared by every application stack:
panic recovery, request logging, savepoints, action tags and prometheus
metrics.
*/
package utils
