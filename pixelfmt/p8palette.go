package pixelfmt

// p8Palette is the fixed palette of the P8HCE encoding: 256 A8R8G8B8
// entries stored little endian. Entries 0 through 254 are opaque unit
// normals over the upper hemisphere packed as (n+1)/2; entry 255 is the
// transparent flat normal.
var p8Palette = [1024]byte{
	0xFF, 0x7F, 0x7F, 0xFF, 0xFF, 0x80, 0x87, 0xFF, 0xFE, 0x89, 0x75, 0xFF, 0xFE, 0x6E, 0x81, 0xFF,
	0xFD, 0x90, 0x8C, 0xFF, 0xFD, 0x7B, 0x68, 0xFF, 0xFC, 0x71, 0x96, 0xFF, 0xFC, 0x9B, 0x78, 0xFF,
	0xFB, 0x64, 0x71, 0xFF, 0xFB, 0x8B, 0x9E, 0xFF, 0xFA, 0x8D, 0x60, 0xFF, 0xFA, 0x5F, 0x8F, 0xFF,
	0xF9, 0xA4, 0x8B, 0xFF, 0xF9, 0x6C, 0x5D, 0xFF, 0xF8, 0x77, 0xA8, 0xFF, 0xF8, 0xA2, 0x67, 0xFF,
	0xF7, 0x54, 0x7A, 0xFF, 0xF7, 0x9D, 0xA2, 0xFF, 0xF6, 0x81, 0x51, 0xFF, 0xF6, 0x5E, 0xA1, 0xFF,
	0xF5, 0xB0, 0x7D, 0xFF, 0xF5, 0x59, 0x5F, 0xFF, 0xF4, 0x86, 0xB2, 0xFF, 0xF4, 0x9D, 0x54, 0xFF,
	0xF3, 0x4B, 0x8B, 0xFF, 0xF3, 0xAF, 0x9B, 0xFF, 0xF2, 0x6F, 0x4A, 0xFF, 0xF2, 0x68, 0xB3, 0xFF,
	0xF1, 0xB5, 0x69, 0xFF, 0xF1, 0x48, 0x6C, 0xFF, 0xF0, 0x9B, 0xB4, 0xFF, 0xF0, 0x8F, 0x45, 0xFF,
	0xEF, 0x4C, 0xA1, 0xFF, 0xEF, 0xBD, 0x8A, 0xFF, 0xEE, 0x59, 0x4D, 0xFF, 0xEE, 0x7A, 0xBF, 0xFF,
	0xED, 0xAF, 0x53, 0xFF, 0xED, 0x3E, 0x80, 0xFF, 0xEC, 0xB1, 0xAC, 0xFF, 0xEC, 0x79, 0x3C, 0xFF,
	0xEB, 0x56, 0xB6, 0xFF, 0xEB, 0xC3, 0x73, 0xFF, 0xEA, 0x44, 0x5A, 0xFF, 0xEA, 0x92, 0xC4, 0xFF,
	0xE9, 0xA0, 0x40, 0xFF, 0xE9, 0x3C, 0x99, 0xFF, 0xE8, 0xC3, 0x9B, 0xFF, 0xE8, 0x60, 0x3D, 0xFF,
	0xE7, 0x6A, 0xC6, 0xFF, 0xE7, 0xC0, 0x5A, 0xFF, 0xE6, 0x36, 0x70, 0xFF, 0xE6, 0xAC, 0xBE, 0xFF,
	0xE5, 0x89, 0x33, 0xFF, 0xE5, 0x44, 0xB2, 0xFF, 0xE4, 0xCE, 0x82, 0xFF, 0xE4, 0x47, 0x48, 0xFF,
	0xE3, 0x84, 0xCF, 0xFF, 0xE3, 0xB3, 0x42, 0xFF, 0xE2, 0x2F, 0x8B, 0xFF, 0xE2, 0xC3, 0xAE, 0xFF,
	0xE1, 0x6D, 0x30, 0xFF, 0xE1, 0x57, 0xC7, 0xFF, 0xE0, 0xCF, 0x66, 0xFF, 0xE0, 0x33, 0x5D, 0xFF,
	0xDF, 0xA0, 0xCD, 0xFF, 0xDF, 0x9C, 0x2F, 0xFF, 0xDE, 0x34, 0xA8, 0xFF, 0xDE, 0xD3, 0x95, 0xFF,
	0xDD, 0x50, 0x37, 0xFF, 0xDD, 0x71, 0xD5, 0xFF, 0xDC, 0xC5, 0x4A, 0xFF, 0xDC, 0x28, 0x79, 0xFF,
	0xDB, 0xBC, 0xC0, 0xFF, 0xDB, 0x7F, 0x26, 0xFF, 0xDA, 0x44, 0xC2, 0xFF, 0xDA, 0xD9, 0x77, 0xFF,
	0xD9, 0x37, 0x49, 0xFF, 0xD9, 0x90, 0xD9, 0xFF, 0xD8, 0xB0, 0x32, 0xFF, 0xD8, 0x27, 0x98, 0xFF,
	0xD7, 0xD2, 0xA9, 0xFF, 0xD7, 0x5F, 0x28, 0xFF, 0xD6, 0x5D, 0xD6, 0xFF, 0xD6, 0xD4, 0x57, 0xFF,
	0xD5, 0x25, 0x64, 0xFF, 0xD5, 0xB0, 0xD1, 0xFF, 0xD4, 0x93, 0x22, 0xFF, 0xD4, 0x32, 0xB7, 0xFF,
	0xD3, 0xDF, 0x8B, 0xFF, 0xD3, 0x40, 0x36, 0xFF, 0xD2, 0x7C, 0xE1, 0xFF, 0xD2, 0xC4, 0x3A, 0xFF,
	0xD1, 0x1E, 0x85, 0xFF, 0xD1, 0xCC, 0xBE, 0xFF, 0xD0, 0x71, 0x1E, 0xFF, 0xD0, 0x48, 0xD2, 0xFF,
	0xCF, 0xE0, 0x69, 0xFF, 0xCF, 0x28, 0x4F, 0xFF, 0xCE, 0x9F, 0xDF, 0xFF, 0xCE, 0xA9, 0x24, 0xFF,
	0xCD, 0x23, 0xA7, 0xFF, 0xCD, 0xDF, 0xA1, 0xFF, 0xCC, 0x4F, 0x26, 0xFF, 0xCC, 0x66, 0xE3, 0xFF,
	0xCB, 0xD5, 0x47, 0xFF, 0xCB, 0x1A, 0x6F, 0xFF, 0xCA, 0xC0, 0xD1, 0xFF, 0xCA, 0x87, 0x18, 0xFF,
	0xC9, 0x34, 0xC7, 0xFF, 0xC9, 0xE8, 0x7E, 0xFF, 0xC8, 0x31, 0x3A, 0xFF, 0xC8, 0x8A, 0xE8, 0xFF,
	0xC7, 0xBE, 0x2B, 0xFF, 0xC7, 0x18, 0x93, 0xFF, 0xC6, 0xDA, 0xB7, 0xFF, 0xC6, 0x62, 0x19, 0xFF,
	0xC5, 0x50, 0xDF, 0xFF, 0xC5, 0xE4, 0x59, 0xFF, 0xC4, 0x1C, 0x58, 0xFF, 0xC4, 0xAF, 0xE0, 0xFF,
	0xC3, 0x9E, 0x18, 0xFF, 0xC3, 0x22, 0xB7, 0xFF, 0xC2, 0xEA, 0x95, 0xFF, 0xC2, 0x3F, 0x27, 0xFF,
	0xC1, 0x73, 0xEC, 0xFF, 0xC1, 0xD2, 0x38, 0xFF, 0xC0, 0x12, 0x7D, 0xFF, 0xC0, 0xCF, 0xCC, 0xFF,
	0xBF, 0x79, 0x11, 0xFF, 0xBE, 0x3A, 0xD6, 0xFF, 0xBE, 0xED, 0x6F, 0xFF, 0xBD, 0x23, 0x41, 0xFF,
	0xBD, 0x9A, 0xEC, 0xFF, 0xBC, 0xB6, 0x1E, 0xFF, 0xBC, 0x15, 0xA3, 0xFF, 0xBB, 0xE6, 0xAD, 0xFF,
	0xBB, 0x52, 0x18, 0xFF, 0xBA, 0x5B, 0xEA, 0xFF, 0xBA, 0xE3, 0x49, 0xFF, 0xB9, 0x11, 0x64, 0xFF,
	0xB9, 0xBE, 0xDE, 0xFF, 0xB8, 0x91, 0x0F, 0xFF, 0xB8, 0x26, 0xC7, 0xFF, 0xB7, 0xF2, 0x87, 0xFF,
	0xB7, 0x30, 0x2C, 0xFF, 0xB6, 0x82, 0xF3, 0xFF, 0xB6, 0xCC, 0x29, 0xFF, 0xB5, 0x0D, 0x8C, 0xFF,
	0xB5, 0xDD, 0xC4, 0xFF, 0xB4, 0x69, 0x0E, 0xFF, 0xB4, 0x43, 0xE3, 0xFF, 0xB3, 0xEF, 0x5F, 0xFF,
	0xB3, 0x17, 0x4C, 0xFF, 0xB2, 0xAA, 0xEC, 0xFF, 0xB2, 0xAA, 0x12, 0xFF, 0xB1, 0x16, 0xB3, 0xFF,
	0xB1, 0xF0, 0xA0, 0xFF, 0xB0, 0x42, 0x1B, 0xFF, 0xB0, 0x68, 0xF3, 0xFF, 0xAF, 0xDF, 0x3A, 0xFF,
	0xAF, 0x0A, 0x73, 0xFF, 0xAE, 0xCE, 0xD9, 0xFF, 0xAE, 0x82, 0x09, 0xFF, 0xAD, 0x2D, 0xD5, 0xFF,
	0xAD, 0xF6, 0x78, 0xFF, 0xAC, 0x22, 0x35, 0xFF, 0xAC, 0x92, 0xF6, 0xFF, 0xAB, 0xC2, 0x1C, 0xFF,
	0xAB, 0x0B, 0x9C, 0xFF, 0xAA, 0xE9, 0xB9, 0xFF, 0xAA, 0x59, 0x0E, 0xFF, 0xA9, 0x4F, 0xEE, 0xFF,
	0xA9, 0xEE, 0x4F, 0xFF, 0xA8, 0x0D, 0x59, 0xFF, 0xA8, 0xBA, 0xE9, 0xFF, 0xA7, 0x9C, 0x0A, 0xFF,
	0xA7, 0x1B, 0xC3, 0xFF, 0xA6, 0xF8, 0x92, 0xFF, 0xA6, 0x33, 0x21, 0xFF, 0xA5, 0x78, 0xF9, 0xFF,
	0xA5, 0xD7, 0x2B, 0xFF, 0xA4, 0x05, 0x82, 0xFF, 0xA4, 0xDC, 0xD0, 0xFF, 0xA3, 0x72, 0x06, 0xFF,
	0xA3, 0x37, 0xE2, 0xFF, 0xA2, 0xF8, 0x67, 0xFF, 0xA2, 0x16, 0x40, 0xFF, 0xA1, 0xA2, 0xF5, 0xFF,
	0xA1, 0xB6, 0x11, 0xFF, 0xA0, 0x0D, 0xAD, 0xFF, 0xA0, 0xF3, 0xAC, 0xFF, 0x9F, 0x48, 0x11, 0xFF,
	0x9F, 0x5D, 0xF6, 0xFF, 0x9E, 0xE9, 0x3F, 0xFF, 0x9E, 0x06, 0x68, 0xFF, 0x9D, 0xC9, 0xE3, 0xFF,
	0x9D, 0x8C, 0x04, 0xFF, 0x9C, 0x23, 0xD2, 0xFF, 0x9C, 0xFC, 0x82, 0xFF, 0x9B, 0x25, 0x2A, 0xFF,
	0x9B, 0x88, 0xFC, 0xFF, 0x9A, 0xCD, 0x1E, 0xFF, 0x9A, 0x04, 0x93, 0xFF, 0x99, 0xE8, 0xC4, 0xFF,
	0x99, 0x61, 0x06, 0xFF, 0x98, 0x44, 0xED, 0xFF, 0x98, 0xF6, 0x57, 0xFF, 0x97, 0x0D, 0x4E, 0xFF,
	0x97, 0xB3, 0xF2, 0xFF, 0x96, 0xA7, 0x08, 0xFF, 0x96, 0x12, 0xBD, 0xFF, 0x95, 0xFA, 0x9D, 0xFF,
	0x95, 0x39, 0x17, 0xFF, 0x94, 0x6D, 0xFC, 0xFF, 0x94, 0xE1, 0x30, 0xFF, 0x93, 0x02, 0x78, 0xFF,
	0x93, 0xD7, 0xDA, 0xFF, 0x92, 0x7C, 0x01, 0xFF, 0x92, 0x2D, 0xDF, 0xFF, 0x91, 0xFD, 0x71, 0xFF,
	0x91, 0x19, 0x36, 0xFF, 0x90, 0x99, 0xFB, 0xFF, 0x90, 0xC0, 0x13, 0xFF, 0x8F, 0x06, 0xA4, 0xFF,
	0x8F, 0xF1, 0xB7, 0xFF, 0x8E, 0x51, 0x0A, 0xFF, 0x8E, 0x53, 0xF6, 0xFF, 0x8D, 0xF1, 0x46, 0xFF,
	0x8D, 0x05, 0x5D, 0xFF, 0x8C, 0xC2, 0xEB, 0xFF, 0x8C, 0x97, 0x03, 0xFF, 0x8B, 0x1A, 0xCC, 0xFF,
	0x8B, 0xFE, 0x8C, 0xFF, 0x8A, 0x2B, 0x21, 0xFF, 0x8A, 0x7E, 0xFF, 0xFF, 0x89, 0xD6, 0x23, 0xFF,
	0x89, 0x01, 0x89, 0xFF, 0x88, 0xE4, 0xCE, 0xFF, 0x88, 0x6B, 0x02, 0xFF, 0x87, 0x3A, 0xEA, 0xFF,
	0x87, 0xFB, 0x60, 0xFF, 0x86, 0x0F, 0x43, 0xFF, 0x86, 0xAA, 0xF8, 0xFF, 0x85, 0xB2, 0x0A, 0xFF,
	0x85, 0x0B, 0xB4, 0xFF, 0x84, 0xF9, 0xA7, 0xFF, 0x84, 0x41, 0x10, 0xFF, 0x83, 0x63, 0xFC, 0xFF,
	0x83, 0xE9, 0x37, 0xFF, 0x82, 0x01, 0x6E, 0xFF, 0x82, 0xD0, 0xE2, 0xFF, 0x81, 0x86, 0x00, 0xFF,
	0x81, 0x24, 0xD9, 0xFF, 0x80, 0xFF, 0x7B, 0xFF, 0x80, 0x1F, 0x2D, 0xFF, 0xFF, 0x7F, 0x7F, 0x00,
}
