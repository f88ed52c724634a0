/*
Command poserr plots positional uncertainty against magnitude for each
analyzed Keck epoch of a microlensing target.

  Usage: poserr [options] <target>
    -c, -config   YAML configuration file, also taken from $MICROLENS_CONFIG
    -root         root of epoch directories, overrides poserr.data_root
    -o            output PNG file, default <target>_poserr.png

For each epoch listed for the target, poserr reads the starfinder list

  <root>/<epoch>/combo/starfinder/mag<epoch>_<target>_kp_rms.lis

Columns used are name, K magnitude, x, y, x error, y error, signal to noise
ratio and correlation, columns 1, 2, 4, 5, 6, 7, 8 and 9.  The field center
is taken as half the largest x and y, assuming stars are detected all the
way to the edges.  Positions become arc second offsets from the center
using data.plate_scale, position errors become milliarc seconds, and the
error of a star is the mean of its x and y errors.  Photometric error is
1.086 / SNR.

The PNG has one panel per epoch, three to a row, showing the position error
of stars within poserr.radius arc seconds of the center on a log axis.

On stdout, for each epoch, poserr writes the median position error of stars
brighter than poserr.mag_cutoff within the radius, then median position and
photometric errors in bins of magnitude (1 mag wide, centered on 10 through
19, stars within the radius) and of radius (1 arc second wide, centered on
.5 through 8.5, stars brighter than the cutoff).  Empty bins show zeros.
*/
package main
