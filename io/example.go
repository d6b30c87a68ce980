package io

const ExampleConfigFile = `[Simulation]

#######################
# Required Parameters #
#######################

# Corners of the simulation domain in cm. Particles which leave the domain
# are discarded.
DomainMin = -10 -10 -10
DomainMax = 10 10 10

# Directory containing the cross section library (weights.txt, xs_001.txt,
# iff_001.txt, cff_001.txt, ...).
DataDir = path/to/data/dir
# Directory which tallies and particle tracks will be written to.
OutputDir = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Name = projector
# Description = A lead source in a tank of water.

# Seed of the master random stream. Runs with the same Seed and the same
# configuration produce the same output, regardless of Threads.
# Seed = 1

# Particles are terminated once their energy falls below EnergyCutoff (eV).
# EnergyCutoff = 1000

# Maximum number of interactions recorded for a single particle.
# StackSize = 1000

# If true, every particle's track is written to OutputDir/tracks.
# SaveParticlePaths = false

# Number of threads used for transport and tallying. Default is the number
# of logical cores.
# Threads = 4

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out

# Materials give a Density in g/cm^3 and either a chemical Formula or a list
# of elements (by symbol or atomic number) with AtomicPercentage or
# WeightPercentage values. Percentages are normalized.
[Material "water"]
Density = 1.0
Formula = H2O

[Material "lead"]
Density = 11.35
Element = Pb
AtomicPercentage = 100

# Surface types are plane, ellipsoid, x_cylinder, y_cylinder, z_cylinder,
# x_cone, y_cone and z_cone. Planes contain the half-space opposite their
# Normal. Ellipsoids use the semi-axes A, B, C, cylinders the radii A and B,
# and cones the radii A and B at unit height C.
[Surface "ball"]
Type = ellipsoid
Center = 0 0 0
A = 1
B = 1
C = 1

[Surface "tank_side"]
Type = z_cylinder
Center = 0 0 0
A = 5
B = 5

[Surface "tank_top"]
Type = plane
Center = 0 0 5
Normal = 0 0 1

[Surface "tank_bottom"]
Type = plane
Center = 0 0 -5
Normal = 0 0 -1

# Geometries combine surfaces and other geometries in order. Each Item is an
# operation (join, intersect, subtract, no_op) followed by a name. The first
# Item must be a join.
[Geometry "tank"]
Item = join tank_side
Item = intersect tank_top
Item = intersect tank_bottom

[Geometry "source"]
Item = join ball

# Objects with a larger Order take priority where objects overlap. Objects
# with a PhotonCount emit that many photons of PhotonEnergy (eV) from random
# points inside them. Photons are emitted isotropically unless a Direction is
# given, in which case they are emitted within Spread radians of it.
[Object "water"]
Order = 0
Material = water
Geometry = tank

[Object "source"]
Order = 1
Material = lead
Geometry = source
PhotonCount = 10000
PhotonEnergy = 1e6
# Direction = 0 0 1
# Spread = 0.1

# Score is one of flux, average_energy, interaction_counts and
# deposited_energy. Output is written to OutputDir/tallies/<name>.csv.
[Tally "flux"]
Score = flux
Start = -5 -5 -5
End = 5 5 5
Resolution = 50 50 50`
