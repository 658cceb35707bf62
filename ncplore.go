// Package ncplore is a terminal explorer for hierarchical,
// multi-dimensional scientific array datasets (NetCDF and Zarr).
package ncplore

// Version is set at build time via -ldflags.
var Version = "dev"
