/*
Package utils provides decorators shared by all applications: panic
recovery, logging, savepoints, action tags and prometheus metrics.
*/
package utils
