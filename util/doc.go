// Package util holds small generic helpers shared across vetta packages.
package util
