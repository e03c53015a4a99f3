package pci

import "testing"

func TestEnumerateFindsAttachedDevice(t *testing.T) {
	b := NewBus()
	b.Attach(Device{Bus: 0, Slot: 3, Function: 0, VendorID: 0x8086, DeviceID: 0x100e, BAR0: 0xfebc0000})

	devs := b.EnumerateDevices(32)
	if len(devs) != 1 {
		t.Fatalf("enumerate found %d devices, want 1", len(devs))
	}

	if devs[0].VendorID != 0x8086 || devs[0].DeviceID != 0x100e {
		t.Errorf("device = %+v, want vendor 0x8086 device 0x100e", devs[0])
	}
}

func TestFindDeviceByVendorAndClass(t *testing.T) {
	b := NewBus()
	b.Attach(Device{Bus: 0, Slot: 3, VendorID: 0x8086, DeviceID: 0x100e, ClassCode: 0x02, Subclass: 0x00})

	if _, ok := b.FindDevice(0x8086, 0x100e); !ok {
		t.Error("FindDevice should locate the attached NIC")
	}

	if _, ok := b.FindDeviceByClass(0x02, 0x00); !ok {
		t.Error("FindDeviceByClass should locate the network-class device")
	}

	if _, ok := b.FindDevice(0x1234, 0x5678); ok {
		t.Error("FindDevice should not locate an unattached vendor/device pair")
	}
}

func TestMultiFunctionEnumeratesAllFunctions(t *testing.T) {
	b := NewBus()
	b.AttachMultiFunction(Device{Bus: 0, Slot: 1, Function: 0, VendorID: 0x1111, DeviceID: 0x0001})
	b.Attach(Device{Bus: 0, Slot: 1, Function: 1, VendorID: 0x1111, DeviceID: 0x0002})

	devs := b.EnumerateDevices(32)
	if len(devs) != 2 {
		t.Fatalf("enumerate found %d devices, want 2", len(devs))
	}
}

func TestExistsFalseForUnattachedSlot(t *testing.T) {
	b := NewBus()
	if b.Exists(0, 0, 0) {
		t.Error("empty bus should report no device present")
	}
}
