package referencedata

const sampleYAML = `
servicePoints:
  - id: 1
    name: Appleton Tower
    location: {lng: -3.186874, lat: 55.944494}
  - id: 2
    name: Ocean Terminal
    location: {lng: -3.17732, lat: 55.981877}
drones:
  - id: "1"
    name: Drone 1
    capability: {cooling: true, heating: true, capacity: 4.0, maxMoves: 2000, costPerMove: 0.01, costInitial: 4.3, costFinal: 6.5}
  - id: "2"
    name: Drone 2
    capability: {cooling: false, heating: true, capacity: 8.0, maxMoves: 1000, costPerMove: 0.03, costInitial: 2.6, costFinal: 5.4}
  - id: "3"
    name: Drone 3
    capability: {capacity: 20.0, maxMoves: 4000, costPerMove: 0.05, costInitial: 9.5, costFinal: 11.5}
restrictedAreas:
  - id: 1
    name: George Square Area
    limits: {lower: 0, upper: -1}
    vertices:
      - {lng: -3.190578818321228, lat: 55.94402412577528}
      - {lng: -3.1899887323379517, lat: 55.94284650540911}
      - {lng: -3.187097311019897, lat: 55.94328811724263}
      - {lng: -3.187682032585144, lat: 55.944477740393744}
      - {lng: -3.190578818321228, lat: 55.94402412577528}
dronesForServicePoints:
  - servicePointId: 1
    drones:
      - id: "1"
        availability:
          - {dayOfWeek: MONDAY, from: "00:00:00", until: "23:59:59"}
      - id: "2"
        availability:
          - {dayOfWeek: TUESDAY, from: "08:00", until: "18:00"}
  - servicePointId: 2
    drones:
      - id: "2"
        availability:
          - {dayOfWeek: WEDNESDAY, from: "08:00", until: "18:00"}
`
