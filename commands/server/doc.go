/*
Package server implements the commands shared by application daemons:
writing the application state into a tendermint genesis file, validating
such a file and running the ABCI server.
*/
package server
