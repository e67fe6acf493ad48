// Package model contains the database models for authd.
package model
