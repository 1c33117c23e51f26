package intake

import (
	"fmt"
	"strings"
)

// SignatureRole names an attestation slot on the packet.
type SignatureRole string

const (
	SignatureProvider       SignatureRole = "provider"
	SignatureAcknowledgment SignatureRole = "acknowledgment"
	SignatureHIPAA          SignatureRole = "hipaa"
)

// AllSignatureRoles returns the signature roles in packet order.
func AllSignatureRoles() []SignatureRole {
	return []SignatureRole{SignatureProvider, SignatureAcknowledgment, SignatureHIPAA}
}

// Optional reports whether the packet may be printed without this signature.
func (r SignatureRole) Optional() bool {
	return r == SignatureHIPAA
}

// Label returns the heading used for the role on screen and in the packet.
func (r SignatureRole) Label() string {
	switch r {
	case SignatureProvider:
		return "Provider Attestation"
	case SignatureAcknowledgment:
		return "Patient Acknowledgment"
	case SignatureHIPAA:
		return "HIPAA Acknowledgment"
	default:
		return string(r)
	}
}

// Attestation returns the statement the signer attests to.
func (r SignatureRole) Attestation() string {
	switch r {
	case SignatureProvider:
		return "I certify that I personally evaluated the patient, documented objective findings, " +
			"performed and/or supervised custom fitting, and determined the prescribed orthosis is " +
			"medically necessary under CMS and payer coverage standards. Custom fitting included " +
			"bending, cutting, and/or sizing and instructing the patient on the use of the brace."
	case SignatureAcknowledgment:
		return "I authorize B.G. Bracing LLC and my provider to release any medical information " +
			"necessary to process insurance claims and receive direct payment of benefits. I " +
			"acknowledge financial responsibility for non-covered charges. I confirm I have received " +
			"and been custom fitted for the devices indicated above and was instructed in proper use and care."
	case SignatureHIPAA:
		return "I acknowledge receipt of the Notice of Privacy Practices."
	default:
		return ""
	}
}

// ParseSignatureRole converts a string to a SignatureRole (case-insensitive).
func ParseSignatureRole(s string) (SignatureRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "provider":
		return SignatureProvider, nil
	case "acknowledgment", "acknowledgement":
		return SignatureAcknowledgment, nil
	case "hipaa":
		return SignatureHIPAA, nil
	default:
		return "", fmt.Errorf("invalid signature role: %q (valid values: provider, acknowledgment, hipaa)", s)
	}
}

// CaptureRole names a document slot filled by the camera or a file.
type CaptureRole string

const (
	CaptureInsuranceFront CaptureRole = "insuranceFront"
	CaptureInsuranceBack  CaptureRole = "insuranceBack"
	CaptureLicense        CaptureRole = "license"
	CapturePrescription   CaptureRole = "prescription"
)

// AllCaptureRoles returns the capture roles in packet order.
func AllCaptureRoles() []CaptureRole {
	return []CaptureRole{CaptureInsuranceFront, CaptureInsuranceBack, CaptureLicense, CapturePrescription}
}

// IsCard reports whether the document is wallet-card shaped and gets the
// central crop when taken from the live feed.
func (r CaptureRole) IsCard() bool {
	return r != CapturePrescription
}

// Label returns a human-readable name for the role.
func (r CaptureRole) Label() string {
	switch r {
	case CaptureInsuranceFront:
		return "Insurance Card (Front)"
	case CaptureInsuranceBack:
		return "Insurance Card (Back)"
	case CaptureLicense:
		return "Driver's License"
	case CapturePrescription:
		return "Prescription"
	default:
		return string(r)
	}
}

// ParseCaptureRole converts a string to a CaptureRole (case-insensitive).
func ParseCaptureRole(s string) (CaptureRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "insurancefront", "insurance-front", "front":
		return CaptureInsuranceFront, nil
	case "insuranceback", "insurance-back", "back":
		return CaptureInsuranceBack, nil
	case "license", "licence", "drivers-license":
		return CaptureLicense, nil
	case "prescription", "rx":
		return CapturePrescription, nil
	default:
		return "", fmt.Errorf("invalid capture role: %q (valid values: insuranceFront, insuranceBack, license, prescription)", s)
	}
}
