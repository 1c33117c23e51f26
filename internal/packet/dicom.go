package packet

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SecondaryCaptureSOPClassUID is the SOP class of exported documents.
const SecondaryCaptureSOPClassUID = "1.2.840.10008.5.1.4.1.1.7"

const (
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	implementationClassUID = "2.25.329800735698586629295641978511506172918"
)

// DICOMExporter writes captured documents as Secondary Capture objects so
// they can be filed in a PACS alongside the patient's imaging.
type DICOMExporter struct {
	Dir string
	// NewUID generates unique identifiers; defaults to UUID-derived 2.25 UIDs.
	NewUID func() string
}

// Export writes one file per captured image and returns their paths. PDF
// prescriptions are skipped.
func (e *DICOMExporter) Export(p *Packet) ([]string, error) {
	newUID := e.NewUID
	if newUID == nil {
		newUID = UIDFromUUID
	}

	var images []intake.CaptureRole
	for _, role := range intake.AllCaptureRoles() {
		if p.Captures[role].IsImage() {
			images = append(images, role)
		}
	}
	if len(images) == 0 {
		return nil, nil
	}

	outDir := filepath.Join(e.Dir, p.FileName())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	studyUID := newUID()
	seriesUID := newUID()

	var paths []string
	for i, role := range images {
		img, _, err := image.Decode(bytes.NewReader(p.Captures[role].Data))
		if err != nil {
			return paths, fmt.Errorf("decoding %s: %w", role, err)
		}

		ds := secondaryCapture(p, role, img, i+1, studyUID, seriesUID, newUID())
		path := filepath.Join(outDir, fmt.Sprintf("DOC%04d.dcm", i+1))
		if err := writeDatasetToFile(path, ds); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func secondaryCapture(p *Packet, role intake.CaptureRole, img image.Image, instance int, studyUID, seriesUID, sopUID string) dicom.Dataset {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	drawCaption(rgba, strings.ToUpper(role.Label()))

	nativeFrame := frame.NewNativeFrame[uint8](8, height, width, width*height, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := rgba.PixOffset(x, y)
			i := (y*width + x) * 3
			nativeFrame.RawData[i] = rgba.Pix[o]
			nativeFrame.RawData[i+1] = rgba.Pix[o+1]
			nativeFrame.RawData[i+2] = rgba.Pix[o+2]
		}
	}

	pixelData := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	rec := p.Patient
	studyDate := dicomDate(p.ServiceDate())

	return dicom.Dataset{Elements: []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{SecondaryCaptureSOPClassUID}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopUID}),
		mustNewElement(tag.ImplementationClassUID, []string{implementationClassUID}),
		mustNewElement(tag.SOPClassUID, []string{SecondaryCaptureSOPClassUID}),
		mustNewElement(tag.SOPInstanceUID, []string{sopUID}),
		mustNewElement(tag.StudyDate, []string{studyDate}),
		mustNewElement(tag.ContentDate, []string{dicomDate(p.GeneratedAt.Format(intake.DateLayout))}),
		mustNewElement(tag.Modality, []string{"OT"}),
		mustNewElement(tag.ConversionType, []string{"SD"}),
		mustNewElement(tag.Manufacturer, []string{p.Company.Name}),
		mustNewElement(tag.InstitutionName, []string{p.Company.Name}),
		mustNewElement(tag.ReferringPhysicianName, []string{dicomName(p.Company.ReferringProvider, "", "")}),
		mustNewElement(tag.StudyDescription, []string{truncate("DME INTAKE "+p.EventName, 64)}),
		mustNewElement(tag.SeriesDescription, []string{"SUPPORTING DOCUMENTS"}),
		mustNewElement(tag.PatientName, []string{dicomName(rec.LastName, rec.FirstName, rec.MiddleName)}),
		mustNewElement(tag.PatientID, []string{truncate(rec.PrimaryID, 64)}),
		mustNewElement(tag.PatientBirthDate, []string{dicomDate(rec.DOB)}),
		mustNewElement(tag.PatientSex, []string{dicomSex(rec.Sex)}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.StudyID, []string{"1"}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.InstanceNumber, []string{fmt.Sprintf("%d", instance)}),
		mustNewElement(tag.ImageComments, []string{role.Label()}),
		mustNewElement(tag.SamplesPerPixel, []int{3}),
		mustNewElement(tag.PhotometricInterpretation, []string{"RGB"}),
		mustNewElement(tag.PlanarConfiguration, []int{0}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.BitsAllocated, []int{8}),
		mustNewElement(tag.BitsStored, []int{8}),
		mustNewElement(tag.HighBit, []int{7}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.PixelData, pixelData),
	}}
}

// drawCaption burns a label into the top-left corner on a dark band so the
// document type stays readable once detached from its metadata.
func drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	baseWidth := font.MeasureString(face, text).Ceil()
	const baseHeight = 13

	textImg := image.NewRGBA(image.Rect(0, 0, baseWidth, baseHeight))
	drawer := &font.Drawer{
		Dst:  textImg,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.Point26_6{Y: fixed.I(11)},
	}
	drawer.DrawString(text)

	scale := 2
	if baseWidth*scale > img.Bounds().Dx()-8 {
		scale = 1
	}
	scaled := image.Rect(4, 4, 4+baseWidth*scale, 4+baseHeight*scale)

	band := scaled.Inset(-3).Intersect(img.Bounds())
	draw.Draw(img, band, image.NewUniform(color.RGBA{0, 0, 0, 200}), image.Point{}, draw.Over)
	draw.NearestNeighbor.Scale(img, scaled, textImg, textImg.Bounds(), draw.Over, nil)
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, opts...)
}

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// UIDFromUUID returns a random UID under the 2.25 arc.
func UIDFromUUID() string {
	u := uuid.New()
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}

// dicomDate converts YYYY-MM-DD to DICOM DA; anything else yields an empty value.
func dicomDate(s string) string {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return ""
	}
	return s[0:4] + s[5:7] + s[8:10]
}

// dicomName builds a PN value FAMILY^Given^Middle.
func dicomName(family, given, middle string) string {
	clean := func(s string) string {
		return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "^", " "))
	}
	name := clean(family) + "^" + clean(given)
	if middle != "" {
		name += "^" + clean(middle)
	}
	return truncate(name, 64)
}

func dicomSex(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return "M"
	case "F", "FEMALE":
		return "F"
	case "":
		return ""
	default:
		return "O"
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
