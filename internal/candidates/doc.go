// Package candidates provides the built-in functions whose growth class
// bigocalc can measure, each tagged with the class it is known to have.
package candidates
