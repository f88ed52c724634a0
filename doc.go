/*
Command microlens fits point source point lens models to gravitational
microlensing events observed with OGLE photometry and Keck astrometry, and
summarizes the posterior of each fit.

Contents

  Program overview
  Command line usage
  Configuration
  The solver program
  File formats
  Summary statistics


Program overview

For a target such as ob150211, microlens loads the OGLE light curve and the
aligned astrometry, hands them to an external nested sampling solver, then
reads the solver's weighted posterior samples back.  It evaluates the
maximum likelihood model against the data, plots data, model and residuals,
and writes a summary giving, for each fitted parameter, the best fit value
and the median with its 1 sigma credible interval.

Four models are available, selected by two options:

  parallax  phot-only  model          output directory
  no        no         pspl           mnest_pspl/
  no        yes        pspl_phot      mnest_pspl_phot/
  yes       no         pspl_par       mnest_pspl_par/
  yes       yes        pspl_par_phot  mnest_pspl_par_phot/

Output directories are under the align directory.  Output file names start
with a run code, "aa_" by default, so that several runs of the same model
can share a directory.


Command line usage

  microlens fit [options] <target>
  microlens summarize [options] <target>
  microlens targets [-e]
  microlens starfield [-root dir] [-epoch 15jun07] [-o file] [target ...]

fit runs the solver, or with -reuse takes the output of an earlier run, and
writes plots and the summary.  summarize only rewrites the summary of an
earlier run.  targets lists known targets with their positions and, with -e,
the analyzed Keck epochs.  starfield draws the K' image of each target at
one epoch with the target and a 2" scale bar marked.  Images are
<root>/<epoch>/combo/mag<epoch>_<TARGET>_kp.fits, the target position is the
first row of the .coo file of the same name, and root defaults to
poserr.data_root.

Options of fit and summarize:

  -c, -config      YAML configuration file, also taken from $MICROLENS_CONFIG
  -a, -align-dir   root of output directories
  -r, -runcode     prefix of output file names
  -p, -parallax    fit annual parallax
  -phot-only       fit photometry only
  -no-xlsx         skip the spreadsheet summary

fit also takes

  -points-dir      directory of .points files, relative to the align directory
  -reuse           do not run the solver

Command line options override the configuration file.

A fit that is reused must exist.  Otherwise the program terminates with
"this model has not been run yet."


Configuration

The configuration file is YAML.  $VAR references are expanded from the
environment, and a .env file in the working directory is loaded first.
All keys are optional:

  log:
    level: info                # trace, debug, info, warn, error
    format: console            # console or json
  data:
    phot_dir: /g/lu/microlens/cross_epoch
    align_dir: ""
    points_dir: points_d/
    plate_scale: 0.00995       # arc seconds per pixel
  fit:
    target: ""
    parallax: false
    phot_only: false
    solve: true
    runcode: aa_
    no_xlsx: false
  solver:
    command: [microlens-solver]
  poserr:
    data_root: /u/jlu/data/microlens/
    mag_cutoff: 17
    radius: 4                  # arc seconds

Log messages go to stderr, results to stdout.


The solver program

The lens model and the sampler are not part of microlens.  solver.command
names a program that implements them.  It is run with one of three
subcommands:

  solve --variant <solver> --basename <basename> --data <file>

The data file, <basename>data.json, holds the observations, the lens
position, the parameter names in output order, and priors to override.
The program writes MultiNest output, in particular <basename>.txt.

  plot-posteriors --variant <solver> --basename <basename>

Writes posterior plots of its own.

  evaluate --variant <solver>

Reads a JSON request with "params", "t_phot" and "t_ast" on stdin and
writes model "mag", "x" and "y" at those times as JSON on stdout.

Solver names are PSPL_Solver, PSPL_phot_Solver, PSPL_parallax_Solver and
PSPL_phot_parallax_Solver.


File formats

Photometry, <phot_dir>/OB150211/OGLE-2015-BLG-0211.dat for example, has
columns HJD, I magnitude, and magnitude error.  Times are converted to MJD.

Astrometry, <align_dir>/<points_dir>/<target>.points, has columns decimal
year, x, y, x error, y error, in pixels.  Positions are taken relative to
the first row and scaled by the plate scale to arc seconds.

In both, blank lines and lines starting with # are ignored, extra columns
are ignored, and times must not decrease.

The posterior table <basename>.txt has columns weight, -2 ln L, then the
model parameters.


Summary statistics

Each row of <basename>final.txt is

  name  best  median + high - low

best is the parameter of the maximum likelihood sample.  median, and the
quantiles .158655 and .841345 that bound the 1 sigma interval, are weighted
quantiles of the samples: the sample at the first sorted position where the
cumulative normalized weight reaches the quantile.  high and low are the
distances from the median to the interval bounds.

Note the order.  The upper delta follows "+" and the lower delta follows
"-".  final.txt files written by the earlier Python fitting scripts have
them the other way around, lower delta after "+", so compare columns with
care.

<basename>final.xlsx has the same rows and identifies target, model, lens
position, sample count, and the mean log likelihood of the best fit.
*/
package main
