// Package chromquant holds the data model for chromatographic peak
// quantification: series of chromatograms with their peak tables, the species
// registry, and fitted calibration standards. The engines that operate on
// this model live in the assign, calibration, and quantify subpackages.
package chromquant
