/*
 * dcd.go, part of alquimia.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package dcd writes Charmm/NAMD binary trajectory files. Coordinates
//are taken as gonum N x 3 matrices, in Angstrom.
package dcd

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

const mAXTITLE int32 = 80

//DCDWObj is a Charmm/NAMD binary trajectory file opened for writing.
type DCDWObj struct {
	natoms    int32
	writable  bool
	filename  string
	frames    int32
	dcd       *os.File
	dcdFields [][]float32
	endian    binary.ByteOrder
}

//NewWriter initializes a DCD trajectory for writing.
func NewWriter(filename string, natoms int) (*DCDWObj, error) {
	traj := new(DCDWObj)
	traj.natoms = int32(natoms)
	if err := traj.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	return traj, nil
}

//Close flushes and closes the underlying file. The object can not be
//written after this call.
func (D *DCDWObj) Close() {
	if !D.writable {
		return
	}
	D.dcd.Close()
	D.writable = false
}

//Len returns the number of atoms per frame.
func (D *DCDWObj) Len() int {
	return int(D.natoms)
}

//initWrite opens the file and writes the DCD header. Only little endian,
//charmm-style files with no fixed atoms are produced.
func (D *DCDWObj) initWrite(name string) error {
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Write", "initWrite"}, true}
	}
	D.endian = binary.LittleEndian
	var err error
	D.dcd, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), name, []string{"os.Create", "initWrite"}, true}
	}
	D.filename = name
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	//For some reason, we have to write this magic number.
	magic := []byte("CORD")
	if err := binary.Write(D.dcd, D.endian, magic); err != nil {
		return wrapbinerr(err)
	}
	//The frames in the file go here. No frames written yet, but will update this part after every write.
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//Initial time
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//step interval (nsavc)
	if err := binary.Write(D.dcd, D.endian, int32(1)); err != nil {
		return wrapbinerr(err)
	}
	//5 zeros plus natom-nfreat
	for i := 0; i < 6; i++ {
		if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
			return wrapbinerr(err)
		}
	}
	//delta time
	if err := binary.Write(D.dcd, D.endian, float32(1)); err != nil {
		return wrapbinerr(err)
	}
	//No unit cell
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//8 zeros for charmm
	for i := 0; i < 8; i++ {
		if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
			return wrapbinerr(err)
		}
	}
	//charmm version, let's say, 24
	if err := binary.Write(D.dcd, D.endian, int32(24)); err != nil {
		return wrapbinerr(err)
	}
	//don't ask me why
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	//same as above
	if err := binary.Write(D.dcd, D.endian, int32(244)); err != nil {
		return wrapbinerr(err)
	}
	//how many units of mAXTITLE does the title have?
	var ntitle int32 = 2 //just a dummy title.
	if err := binary.Write(D.dcd, D.endian, ntitle); err != nil {
		return wrapbinerr(err)
	}
	title := make([]byte, 2*mAXTITLE)
	for j := range title {
		title[j] = byte('l')
	}
	title[len(title)-1] = byte('\000') //null-ended
	if err := binary.Write(D.dcd, D.endian, title); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(244)); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(4)); err != nil {
		return wrapbinerr(err)
	}
	//ok, this is important, the number of atoms in each snapshot.
	if D.natoms == 0 {
		return Error{"Trajectory not initialized correctly, the number of atoms is set to zero!", D.filename, []string{"initWrite"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, D.natoms); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(4)); err != nil {
		return wrapbinerr(err)
	}
	runtime.SetFinalizer(D, func(D *DCDWObj) {
		D.dcd.Close()
	})
	D.writable = true
	return nil
}

//WNext writes the next frame to the trajectory.
func (D *DCDWObj) WNext(towrite *mat.Dense) error {
	if !D.writable {
		return Error{TrajUnIni, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{"got nil coordinates", D.filename, []string{"WNext"}, true}
	}
	r, _ := towrite.Dims()
	if int32(r) != D.natoms {
		return Error{"Coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	//This layout is easier to write to the dcd
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(towrite.At(i, 0))
		D.dcdFields[1][i] = float32(towrite.At(i, 1))
		D.dcdFields[2][i] = float32(towrite.At(i, 2))
	}
	if err := D.wnextRaw(D.dcdFields); err != nil {
		return errDecorate(err, "WNext")
	}
	D.frames++
	return D.updateFrames()
}

//wnextRaw writes the three distance blocks of one frame.
func (D *DCDWObj) wnextRaw(blocks [][]float32) error {
	for _, b := range blocks {
		if len(b) != int(D.natoms) {
			return Error{NotEnoughSpace, D.filename, []string{"wnextRaw"}, true}
		}
		var blocksize int32 = int32(len(b)) * 4 //the "4" is because the size is required in bytes.
		if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.dcd, D.endian, b); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
	}
	return nil
}

//DCD is silly enough to require the number of frames at the begining, so
//we rewrite it after every frame.
func (D *DCDWObj) updateFrames() error {
	currentoffset, err := D.dcd.Seek(0, io.SeekCurrent) //we'll need it to go back
	if err != nil {
		return Error{err.Error(), D.filename, []string{"dcd.Seek", "updateFrames"}, true}
	}
	if _, err = D.dcd.Seek(0, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"dcd.Seek", "updateFrames"}, true}
	}
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Write", "updateFrames"}, true}
	}
	//It's so close to the begining that it is easiest to just rewrite the couple
	//of numbers before the frame count.
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	magic := []byte("CORD")
	if err := binary.Write(D.dcd, D.endian, magic); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(D.frames)); err != nil {
		return wrapbinerr(err)
	}
	if _, err = D.dcd.Seek(currentoffset, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"dcd.Seek", "updateFrames"}, true}
	}
	return nil
}

//Errors

//Error is the general structure for DCD errors.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

//Decorate adds the deco string to the decoration slice of strings of the error,
//and returns the resulting slice.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the error refers.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file to which the error refers.
func (err Error) Format() string { return "dcd" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	//TrajUnIni means an attempt to use an uninitialized trajectory.
	TrajUnIni = "Traj object uninitialized to write"
	//NotEnoughSpace means the blocks given don't match the frame size.
	NotEnoughSpace = "Not enough space in passed blocks"
)

type decorable interface {
	Decorate(string) []string
}

//errDecorate decorates the error if it supports it.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(decorable); ok {
		err2.Decorate(caller)
	}
	return err
}
