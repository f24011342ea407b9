// Package complexity classifies (size, time) measurements into one of five
// canonical growth-rate classes by least-squares fitting each class model
// and comparing their root-mean-square errors.
//
// Classification is a pure function of its input samples: the catalog and
// the thresholds are fixed when the Classifier is built, and nothing is
// carried across calls.
package complexity
